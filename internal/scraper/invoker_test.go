package scraper

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// shellInvoker builds an invoker running script under sh; the product name arrives as $1.
func shellInvoker(t *testing.T, script string, timeout time.Duration) *CommandInvoker {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping tests")
	}

	inv, err := NewCommandInvoker(Config{
		Command: "sh",
		Args:    []string{"-c", script, "scraper"},
		Timeout: timeout,
	})
	require.NoError(t, err)
	t.Cleanup(inv.Close)
	return inv
}

func TestNewCommandInvoker(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{name: "missing command", cfg: Config{}, wantErr: common.ErrMissingConfig},
		{name: "command not on path", cfg: Config{Command: "definitely-not-a-real-scraper-binary"}, wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCommandInvoker(tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		inv := shellInvoker(t, "true", 0)
		assert.Equal(t, DefaultTimeout, inv.timeout)
	})
}

func TestCommandInvoker_Invoke(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the name as one argument", func(t *testing.T) {
		inv := shellInvoker(t, `printf '[{"name":"%s","risk":"HIGH","high":["polyethylene"]}]' "$1"`, 5*time.Second)

		records, err := inv.Invoke(ctx, "Moisture Cream 'Deluxe'; rm -rf")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "Moisture Cream 'Deluxe'; rm -rf", records[0].Name)
		assert.Equal(t, model.RiskHigh, records[0].RiskTier)
		assert.Equal(t, []string{"polyethylene"}, records[0].HighRiskIngredients)
	})

	t.Run("empty result is success", func(t *testing.T) {
		inv := shellInvoker(t, `echo '[]'`, 5*time.Second)

		records, err := inv.Invoke(ctx, "Nothing")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("stderr on success is tolerated", func(t *testing.T) {
		inv := shellInvoker(t, `echo 'DeprecationWarning' >&2; echo '[{"name":"A","risk":"low"}]'`, 5*time.Second)

		records, err := inv.Invoke(ctx, "A")
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("non-zero exit", func(t *testing.T) {
		inv := shellInvoker(t, `echo 'Traceback: boom' >&2; exit 3`, 5*time.Second)

		_, err := inv.Invoke(ctx, "A")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrResolution)
		assert.Contains(t, err.Error(), "Traceback: boom")
	})

	t.Run("unparsable output", func(t *testing.T) {
		inv := shellInvoker(t, `echo 'not json'`, 5*time.Second)

		_, err := inv.Invoke(ctx, "A")
		assert.ErrorIs(t, err, common.ErrResolution)
	})

	t.Run("record without tier", func(t *testing.T) {
		inv := shellInvoker(t, `echo '[{"name":"A","risk":"low"},{"name":"B"}]'`, 5*time.Second)

		_, err := inv.Invoke(ctx, "A")
		assert.ErrorIs(t, err, common.ErrResolution)
	})

	t.Run("timeout", func(t *testing.T) {
		inv := shellInvoker(t, `exec sleep 10`, 100*time.Millisecond)

		start := time.Now()
		_, err := inv.Invoke(ctx, "Slow")
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrResolution)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Less(t, time.Since(start), 5*time.Second)
	})

	t.Run("caller cancellation does not interrupt the process", func(t *testing.T) {
		inv := shellInvoker(t, `sleep 0.3; echo '[{"name":"A","risk":"medium"}]'`, 5*time.Second)

		callerCtx, cancel := context.WithCancel(ctx)
		time.AfterFunc(50*time.Millisecond, cancel)

		records, err := inv.Invoke(callerCtx, "A")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, model.RiskMedium, records[0].RiskTier)
	})

	t.Run("blank name is a validation error", func(t *testing.T) {
		inv := shellInvoker(t, `echo '[]'`, 5*time.Second)

		_, err := inv.Invoke(ctx, "   ")
		assert.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestCommandInvoker_NoLeakAfterTimeout(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	inv := shellInvoker(t, `exec sleep 10`, 50*time.Millisecond)
	_, err := inv.Invoke(context.Background(), "Slow")
	require.Error(t, err)
	inv.Close()
}
