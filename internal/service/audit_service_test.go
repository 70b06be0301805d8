package service

import (
	"context"
	"testing"

	"github.com/tmavroeid/rockpaperscissors-game/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type auditSink struct {
	logs []*domain.AuditLog
}

func (s *auditSink) Create(_ context.Context, log *domain.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

func (s *auditSink) GetByAccount(_ context.Context, account string, limit int) ([]*domain.AuditLog, error) {
	var res []*domain.AuditLog
	for _, l := range s.logs {
		if l.Account == account && len(res) < limit {
			res = append(res, l)
		}
	}
	return res, nil
}

func TestAuditNotifyRecordsBothPlayers(t *testing.T) {
	sink := &auditSink{}
	svc := NewAuditService(sink)
	ctx := context.Background()

	svc.Notify(ctx, domain.Event{
		ID:           "ev-1",
		Type:         domain.EventCompleted,
		GameKey:      gameKey,
		Account:      alice,
		Counterparty: bob,
		Amount:       2000,
		Choice:       domain.ChoicePaper,
	})
	require.Len(t, sink.logs, 2)
	assert.Equal(t, domain.AuditActionGameWin, sink.logs[0].Action)
	assert.Equal(t, alice, sink.logs[0].Account)
	assert.Equal(t, "paper", sink.logs[0].Details["winning_choice"])
	assert.Equal(t, domain.AuditActionGameLose, sink.logs[1].Action)
	assert.Equal(t, bob, sink.logs[1].Account)

	svc.Notify(ctx, domain.Event{ID: "ev-2", Type: domain.EventDeposited, Account: bob, Amount: 10})
	logs, err := svc.GetAccountAuditLogs(ctx, bob, 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, domain.AuditCategoryPayment, logs[1].Category)
	assert.NotContains(t, logs[1].Details, "game_key")
}

func TestAuditLogLogin(t *testing.T) {
	sink := &auditSink{}
	svc := NewAuditService(sink)

	svc.LogLogin(context.Background(), alice, "127.0.0.1", "rpsctl")
	require.Len(t, sink.logs, 1)
	assert.Equal(t, domain.AuditActionLogin, sink.logs[0].Action)
	assert.Equal(t, "127.0.0.1", sink.logs[0].IP)
}
