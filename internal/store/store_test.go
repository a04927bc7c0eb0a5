package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateAndGet(t *testing.T) {
	s := New()

	doc := s.Create(json.RawMessage(`{"title":"first"}`))
	assert.Equal(t, "1", doc.ID)

	got, ok := s.Get(doc.ID)
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"first"}`, string(got.Data))
}

func TestStore_Get_Missing(t *testing.T) {
	s := New()

	_, ok := s.Get("absent")
	assert.False(t, ok)
}

func TestStore_List_Ordered(t *testing.T) {
	s := New()
	s.Create(json.RawMessage(`{"n":1}`))
	s.Create(json.RawMessage(`{"n":2}`))
	s.Create(json.RawMessage(`{"n":3}`))

	docs := s.List()
	require.Len(t, docs, 3)
	assert.Equal(t, "1", docs[0].ID)
	assert.Equal(t, "2", docs[1].ID)
	assert.Equal(t, "3", docs[2].ID)
}

func TestStore_Update(t *testing.T) {
	s := New()
	doc := s.Create(json.RawMessage(`{"title":"old"}`))

	require.True(t, s.Update(doc.ID, json.RawMessage(`{"title":"new"}`)))
	got, ok := s.Get(doc.ID)
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"new"}`, string(got.Data))

	assert.False(t, s.Update("absent", json.RawMessage(`{}`)))
}

func TestStore_Delete(t *testing.T) {
	s := New()
	doc := s.Create(json.RawMessage(`{"title":"x"}`))

	require.True(t, s.Delete(doc.ID))
	_, ok := s.Get(doc.ID)
	assert.False(t, ok)

	assert.False(t, s.Delete(doc.ID))
}
