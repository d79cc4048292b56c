package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntity(t *testing.T) {
	e := NewEntity("guid-1", "Customer Orders")

	assert.Equal(t, "guid-1", e.ID)
	assert.Equal(t, "Customer Orders", e.Name)
	assert.Equal(t, "customer_orders", e.Normalized)
	assert.Nil(t, e.Order)
}

func TestEntity_Rename(t *testing.T) {
	e := NewEntity("guid-1", "orders")
	e.Rename("ORDER-HISTORY")

	assert.Equal(t, "guid-1", e.ID, "identity must survive a rename")
	assert.Equal(t, "ORDER-HISTORY", e.Name)
	assert.Equal(t, "order_history", e.Normalized)
}

func TestEntity_IdentityPromoted(t *testing.T) {
	table := Table{Entity: NewEntity("t1", "Orders"), Connection: "pg"}
	column := Column{Entity: NewEntity("c1", "Order ID"), TableID: "t1"}

	var named []Named = []Named{table, column}
	assert.Equal(t, "orders", named[0].Identity().Normalized)
	assert.Equal(t, "order_id", named[1].Identity().Normalized)
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	require.NotNil(t, StringPtr("VARCHAR"))
	assert.Equal(t, "VARCHAR", *StringPtr("VARCHAR"))
}

func TestMatchConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       MatchConfig
		wantErr   bool
		errSubstr string
	}{
		{name: "defaults", cfg: DefaultMatchConfig()},
		{name: "zero thresholds", cfg: MatchConfig{}},
		{name: "upper bound", cfg: MatchConfig{TableThreshold: 100, ColumnThreshold: 100}},
		{name: "negative table", cfg: MatchConfig{TableThreshold: -1}, wantErr: true, errSubstr: "table threshold"},
		{name: "column too high", cfg: MatchConfig{ColumnThreshold: 101}, wantErr: true, errSubstr: "column threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEdgeOutcome_String(t *testing.T) {
	assert.Equal(t, "created", EdgeCreated.String())
	assert.Equal(t, "confirmed", EdgeConfirmed.String())
	assert.Equal(t, "unknown", EdgeOutcome(42).String())
}

func TestConfigurationError(t *testing.T) {
	err := fmt.Errorf("run aborted: %w", &ConfigurationError{
		Connection: "postgres-prod",
		Role:       "source",
		Err:        ErrConnectionNotFound,
	})

	assert.True(t, IsConfigurationError(err))
	assert.True(t, errors.Is(err, ErrConnectionNotFound))
	assert.Contains(t, err.Error(), `source connection "postgres-prod"`)
	assert.False(t, IsConfigurationError(errors.New("boom")))
}

func TestCollaboratorError(t *testing.T) {
	cause := errors.New("timeout")
	err := &CollaboratorError{Op: "list columns", Entity: "orders", Err: cause}

	assert.Equal(t, "list columns orders: timeout", err.Error())
	assert.ErrorIs(t, err, cause)
}
