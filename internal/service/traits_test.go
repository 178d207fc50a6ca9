package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeTags(t *testing.T) {
	tests := []struct {
		name    string
		current map[string]string
		updates map[string]string
		want    map[string]string
	}{
		{
			name:    "adds and overwrites",
			current: map[string]string{"team": "search", "year": "2023"},
			updates: map[string]string{"year": "2024", "status": "reviewed"},
			want:    map[string]string{"team": "search", "year": "2024", "status": "reviewed"},
		},
		{
			name:    "never deletes missing keys",
			current: map[string]string{"team": "search"},
			updates: map[string]string{},
			want:    map[string]string{"team": "search"},
		},
		{
			name:    "strips empty tags",
			current: map[string]string{"team": "search", "stale": " "},
			updates: map[string]string{"": "orphan", "team": ""},
			want:    map[string]string{},
		},
		{
			name: "nil inputs",
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeTags(tt.current, tt.updates))
		})
	}
}

func TestMergeTagsDoesNotMutateInputs(t *testing.T) {
	current := map[string]string{"team": "search", "empty": ""}
	mergeTags(current, map[string]string{"year": "2024"})
	assert.Equal(t, map[string]string{"team": "search", "empty": ""}, current)
}

func TestMergeMetadata(t *testing.T) {
	got := mergeMetadata(
		map[string]string{"Author": "kim", "source": "upload"},
		map[string]string{"author": "lee", " ": "dropped", "Reviewed": ""},
	)
	assert.Equal(t, map[string]string{"author": "lee", "source": "upload", "reviewed": ""}, got)
}
