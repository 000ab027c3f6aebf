package controllers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestGenerateCacheKeyDeterministic(t *testing.T) {
	a := url.Values{"city": {"Austin"}, "min_price": {"100000"}}
	b := url.Values{"min_price": {"100000"}, "city": {"Austin"}}

	assert.Equal(t, generateCacheKey(a), generateCacheKey(b), "param order must not change the key")
	assert.NotEqual(t, generateCacheKey(a), generateCacheKey(url.Values{"city": {"Dallas"}}))
	assert.Contains(t, generateCacheKey(a), "property:")
}

func TestBuildPropertyFilter(t *testing.T) {
	query := url.Values{
		"search":       {"garden"},
		"type":         {"house"},
		"listing_type": {"sale"},
		"min_price":    {"100000"},
		"max_price":    {"250000"},
		"bedrooms":     {"3"},
		"featured":     {"true"},
	}

	filter := buildPropertyFilter(query)

	assert.Nil(t, filter["deletedAt"], "soft-deleted listings must be excluded")
	assert.Contains(t, filter, "deletedAt")
	assert.Equal(t, "house", filter["propertyType"])
	assert.Equal(t, "sale", filter["listingType"])
	assert.Equal(t, true, filter["featured"])
	assert.Equal(t, bson.M{"$gte": 100000.0, "$lte": 250000.0}, filter["price"])
	assert.Equal(t, bson.M{"$gte": 3}, filter["bedrooms"])
	require.Contains(t, filter, "$or")
}

func TestBuildPropertyFilterIgnoresBadNumbers(t *testing.T) {
	filter := buildPropertyFilter(url.Values{"min_price": {"cheap"}, "bedrooms": {"many"}})
	assert.NotContains(t, filter, "price")
	assert.NotContains(t, filter, "bedrooms")
}
