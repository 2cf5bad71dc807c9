package gst_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstbill/internal/gst"
)

func TestOrderedBuckets_InsertionOrder(t *testing.T) {
	ob := gst.NewOrderedBuckets[gst.HSNKey, gst.Bucket]()
	for _, k := range []gst.HSNKey{"9983", "1006", "8471", "1006"} {
		b, _ := ob.Upsert(k, func() *gst.Bucket { return &gst.Bucket{} })
		b.Count++
	}

	assert.Equal(t, []gst.HSNKey{"9983", "1006", "8471"}, ob.Keys())
	b, ok := ob.Get("1006")
	require.True(t, ok)
	assert.Equal(t, 2, b.Count)

	_, created := ob.Upsert("8471", func() *gst.Bucket { t.Fatal("init called for existing key"); return nil })
	assert.False(t, created)
}

func TestOrderedBuckets_NilReceiver(t *testing.T) {
	var ob *gst.OrderedBuckets[gst.StateKey, gst.Bucket]
	assert.Equal(t, 0, ob.Len())
	assert.Nil(t, ob.Keys())
	_, ok := ob.Get("29")
	assert.False(t, ok)
	ob.Each(func(gst.StateKey, *gst.Bucket) { t.Fatal("unexpected bucket") })
}

func TestOrderedBuckets_JSON(t *testing.T) {
	ob := gst.NewOrderedBuckets[gst.MonthKey, gst.MonthBucket]()
	for _, m := range []time.Month{time.May, time.April} {
		k := gst.MonthKey{Year: 2024, Month: m}
		ob.Upsert(k, func() *gst.MonthBucket { return &gst.MonthBucket{Label: k.Label()} })
	}

	data, err := json.Marshal(ob)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"2024-05":\{.*"label":"May 2024"\},"2024-04":`, string(data))

	back := gst.NewOrderedBuckets[gst.MonthKey, gst.MonthBucket]()
	require.NoError(t, json.Unmarshal(data, back))
	assert.Equal(t, ob.Keys(), back.Keys())
}

func TestOrderedBuckets_UnmarshalErrors(t *testing.T) {
	t.Run("duplicate key", func(t *testing.T) {
		ob := gst.NewOrderedBuckets[gst.HSNKey, gst.Bucket]()
		err := json.Unmarshal([]byte(`{"8471":{},"8471":{}}`), ob)
		assert.ErrorContains(t, err, "duplicate key")
	})
	t.Run("bad rate key", func(t *testing.T) {
		ob := gst.NewOrderedBuckets[gst.RateKey, gst.Bucket]()
		err := json.Unmarshal([]byte(`{"7%":{}}`), ob)
		assert.Error(t, err)
	})
	t.Run("not an object", func(t *testing.T) {
		ob := gst.NewOrderedBuckets[gst.RateKey, gst.Bucket]()
		err := json.Unmarshal([]byte(`[1,2]`), ob)
		assert.Error(t, err)
	})
}

func TestMonthKey(t *testing.T) {
	k, err := gst.ParseMonthKey("2024-04")
	require.NoError(t, err)
	assert.Equal(t, gst.MonthKey{Year: 2024, Month: time.April}, k)
	assert.Equal(t, "Apr 2024", k.Label())

	_, err = gst.ParseMonthKey("April")
	assert.Error(t, err)
}
