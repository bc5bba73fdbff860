package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefUnmarshalBare(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`"u1"`), &r))

	assert.Equal(t, "u1", r.ID)
	assert.Nil(t, r.User)
	assert.True(t, r.Matches("u1"))
}

func TestRefUnmarshalPopulated(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`{"id":"u1","firstName":"Ann","lastName":"Lee"}`), &r))

	assert.Equal(t, "u1", r.ID)
	require.NotNil(t, r.User)
	assert.Equal(t, "Ann", r.User.FirstName)

	// Обе формы нормализуются к одному id
	assert.True(t, r.Matches("u1"))
	assert.Equal(t, "u1", r.Normalize())
}

func TestRefUnmarshalNull(t *testing.T) {
	var r Ref
	require.NoError(t, json.Unmarshal([]byte(`null`), &r))

	assert.True(t, r.IsZero())
	// Отсутствующая ссылка не совпадает ни с кем
	assert.False(t, r.Matches(""))
	assert.False(t, r.Matches("u1"))
}

func TestRefMarshal(t *testing.T) {
	// Голая форма пишется строкой
	out, err := json.Marshal(NewRef("u1"))
	require.NoError(t, err)
	assert.Equal(t, `"u1"`, string(out))

	// Развернутая — объектом
	out, err = json.Marshal(Ref{ID: "u1", User: &UserSummary{ID: "u1", FirstName: "Ann"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"u1","firstName":"Ann"}`, string(out))

	// Пустая — null
	out, err = json.Marshal(Ref{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(out))
}

func TestRefBare(t *testing.T) {
	r := Ref{ID: "u1", User: &UserSummary{ID: "u1", FirstName: "Ann"}}
	bare := r.Bare()

	assert.Equal(t, "u1", bare.ID)
	assert.Nil(t, bare.User)
}

// Ссылки внутри ресурса: документ принимает обе формы в одном payload
func TestRefInsideResource(t *testing.T) {
	raw := `{
		"id": "t1",
		"title": "Call client",
		"assignedTo": "u1",
		"createdBy": {"id": "u2", "firstName": "Boss"}
	}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))

	assert.True(t, task.AssignedTo.Matches("u1"))
	assert.True(t, task.CreatedBy.Matches("u2"))
}
