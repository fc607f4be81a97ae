package applog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func fieldKeys(fields []zap.Field) []string {
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	return keys
}

func TestContextFieldsEmpty(t *testing.T) {
	assert.Nil(t, contextFields(context.Background()))
}

func TestAddContextFieldsKeepsFirstPosition(t *testing.T) {
	ctx := AddContextFields(context.Background(),
		zap.String("matchId", "m-1"),
		zap.String("command", "start_match"),
	)
	ctx = AddContextFields(ctx, zap.String("challengeId", "INTRO-1"), zap.String("matchId", "m-2"))

	fields := contextFields(ctx)
	assert.Equal(t, []string{"matchId", "command", "challengeId"}, fieldKeys(fields))
	assert.Equal(t, "m-2", fields[0].String)
}

func TestAddContextFieldsDoesNotTouchParent(t *testing.T) {
	parent := AddContextFields(context.Background(), zap.String("matchId", "m-1"))
	child := AddContextFields(parent, zap.String("matchId", "m-2"), zap.String("command", "kill_bots"))

	assert.Equal(t, "m-1", contextFields(parent)[0].String)
	assert.Len(t, contextFields(parent), 1)
	assert.Equal(t, []string{"matchId", "command"}, fieldKeys(contextFields(child)))
}

func TestAddContextFieldsDuplicateKeysInOneCall(t *testing.T) {
	ctx := AddContextFields(context.Background(), zap.Int("witnessId", 1), zap.Int("witnessId", 2))

	fields := contextFields(ctx)
	require.Len(t, fields, 1)
	assert.Equal(t, int64(2), fields[0].Integer)
}

func TestFromContext(t *testing.T) {
	core, observed := observer.New(zap.DebugLevel)
	setLogger(zap.New(core))

	ctx := AddContextFields(context.Background(), zap.String("matchId", "c0ffee"))
	FromContext(ctx).Info("waiting for bot metadata")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "c0ffee", entries[0].ContextMap()["matchId"])
}
