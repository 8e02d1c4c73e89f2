package main

import (
	"errors"
	"testing"
	"voltedge_site_go/admin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFields(t *testing.T) {
	draft, err := applyFields(admin.Draft{"name": "Old", "price": "10"}, []string{"name=Breaker", "desc=a=b"})
	require.NoError(t, err)
	assert.Equal(t, admin.Draft{"name": "Breaker", "price": "10", "desc": "a=b"}, draft)

	_, err = applyFields(admin.Draft{}, []string{"novalue"})
	assert.Error(t, err)
	_, err = applyFields(admin.Draft{}, []string{"=x"})
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	verr := &admin.ValidationError{Fields: admin.FieldErrors{"price": "Price is required", "name": "Name is required"}}
	assert.Equal(t, "please correct the highlighted fields\n  name: Name is required\n  price: Price is required", describe(verr))

	op := &admin.OpError{Kind: admin.ErrDeleteFailed, Message: "Failed to delete product", Err: errors.New("boom")}
	assert.Equal(t, "Failed to delete product", describe(op))

	assert.Equal(t, "plain", describe(errors.New("plain")))
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "On request", money(0))
	assert.Equal(t, "$12.50", money(12.5))
	assert.Equal(t, "4.5", num(4.5))
	assert.Equal(t, "", year(0))
	assert.Equal(t, "2019", year(2019))
}
