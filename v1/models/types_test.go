package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleValue(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "number", input: `{"value": 12.5}`, want: 12.5},
		{name: "numeric string", input: `{"value": "199.99"}`, want: 199.99},
		{name: "padded string", input: `{"value": " 40 "}`, want: 40},
		{name: "zero", input: `{"value": 0}`, want: 0},
		{name: "negative", input: `{"value": -1}`, wantErr: true},
		{name: "not a number", input: `{"value": "abc"}`, wantErr: true},
		{name: "NaN string", input: `{"value": "NaN"}`, wantErr: true},
		{name: "missing", input: `{}`, wantErr: true},
		{name: "null", input: `{"value": null}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateItemRequest
			require.NoError(t, json.Unmarshal([]byte(tt.input), &req))

			got, err := req.Value.Parse()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.0001)
		})
	}

	t.Run("rejects objects", func(t *testing.T) {
		var req CreateItemRequest
		assert.Error(t, json.Unmarshal([]byte(`{"value": {"amount": 1}}`), &req))
	})
}

func TestFlexibleStringSlice(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		var req CreateClaimRequest
		require.NoError(t, json.Unmarshal([]byte(`{"itemIds": ["a", " ", "b"]}`), &req))
		assert.Equal(t, []string{"a", "b"}, req.ItemIDs.NonEmpty())
	})

	t.Run("single string", func(t *testing.T) {
		var req CreateClaimRequest
		require.NoError(t, json.Unmarshal([]byte(`{"itemIds": "item_1"}`), &req))
		assert.Equal(t, []string{"item_1"}, req.ItemIDs.NonEmpty())
	})

	t.Run("empty string", func(t *testing.T) {
		var req CreateClaimRequest
		require.NoError(t, json.Unmarshal([]byte(`{"itemIds": ""}`), &req))
		assert.Empty(t, req.ItemIDs.NonEmpty())
	})
}

func TestRoleAndStatusValidation(t *testing.T) {
	assert.True(t, RoleOwner.IsValid())
	assert.True(t, RoleViewer.IsValid())
	assert.False(t, Role("ADMIN").IsValid())
	assert.Less(t, RoleOwner.Rank(), RoleEditor.Rank())
	assert.Less(t, RoleEditor.Rank(), RoleViewer.Rank())

	assert.True(t, ClaimStatusGatheringEvidence.IsValid())
	assert.False(t, ClaimStatus("CLOSED").IsValid())
}
