package products

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"

	"storefront/apperr"
)

func TestMapInsertErr(t *testing.T) {
	assert.NoError(t, mapInsertErr(nil))

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
	err := mapInsertErr(dup)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Equal(t, "already in use", apperr.FieldsOf(err)["sku"])

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapInsertErr(plain))
	assert.Equal(t, apperr.Internal, apperr.KindOf(mapInsertErr(plain)))
}
