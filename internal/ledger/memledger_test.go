package ledger

import (
	"testing"

	"github.com/fsdevblog/slugreg/internal/db/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemLedger_IssueOwnerOf(t *testing.T) {
	l := NewMemLedger(memory.NewMemStorage())

	require.NoError(t, l.Issue(t.Context(), "alice", 1))

	owner, err := l.OwnerOf(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)

	// повторный выпуск того же токена запрещен
	assert.ErrorIs(t, l.Issue(t.Context(), "bob", 1), ErrTokenExists)

	_, err = l.OwnerOf(t.Context(), 2)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	assert.ErrorIs(t, l.Issue(t.Context(), "", 3), ErrNullAddress)
}

func TestMemLedger_Transfer(t *testing.T) {
	l := NewMemLedger(memory.NewMemStorage())
	require.NoError(t, l.Issue(t.Context(), "alice", 1))

	tests := []struct {
		name    string
		from    string
		to      string
		id      uint64
		wantErr error
	}{
		{name: "not owner", from: "bob", to: "carol", id: 1, wantErr: ErrNotOwner},
		{name: "unknown token", from: "alice", to: "bob", id: 9, wantErr: ErrTokenNotFound},
		{name: "null recipient", from: "alice", to: "", id: 1, wantErr: ErrNullAddress},
		{name: "ok", from: "alice", to: "bob", id: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.Transfer(t.Context(), tt.from, tt.to, tt.id)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			owner, ownErr := l.OwnerOf(t.Context(), tt.id)
			require.NoError(t, ownErr)
			assert.Equal(t, tt.to, owner)
		})
	}
}
