package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBooksRequest(t *testing.T) {
	t.Parallel()

	search := BooksRequest{Search: ptr("nan")}
	require.False(t, search.IsCreate())

	// a present but empty title still selects creation
	create := BooksRequest{Title: ptr(""), Author: ptr("Neil Gaiman"), Rating: ptr(0), Search: ptr("nan")}
	require.True(t, create.IsCreate())
	require.Equal(t, Book{Title: "", Author: "Neil Gaiman", Rating: 0}, create.CreateRequest().Book())
}

func TestBooksRequest_UnmarshalJSON(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		body       string
		wantCreate bool
		wantErr    bool
	}{
		{name: "title", body: `{"title":"Coraline","author":"Neil Gaiman","rating":3}`, wantCreate: true},
		{name: "null title", body: `{"title":null,"search":"x"}`, wantCreate: true},
		{name: "search", body: `{"search":"nan"}`, wantCreate: false},
		{name: "null body", body: `null`, wantCreate: false},
		{name: "not an object", body: `"title"`, wantErr: true},
		{name: "wrong type", body: `{"title":"Coraline","rating":"five"}`, wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var req BooksRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCreate, req.IsCreate())
		})
	}

	var req BooksRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Coraline","author":"Neil Gaiman","rating":3}`), &req))
	require.Equal(t, Book{Title: "Coraline", Author: "Neil Gaiman", Rating: 3}, req.CreateRequest().Book())
}
