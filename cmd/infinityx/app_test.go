package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/config"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/scheduler"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/service"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/testutil"
)

func TestAppScheduler(t *testing.T) {
	svcs, _ := testutil.TestServices(t, service.Options{})
	a := &app{
		cfg:    &config.Config{EventRetentionDays: 30},
		logger: testutil.TestLoggerSilent(),
		svc:    svcs,
	}

	sched, err := a.scheduler([]string{t.TempDir()})
	require.NoError(t, err)

	var names []string
	for _, j := range sched.List() {
		names = append(names, j.Name)
	}
	assert.Equal(t, []string{scheduler.JobEventRetention, scheduler.JobTempSweep}, names)

	require.NoError(t, sched.RunNow(context.Background(), scheduler.JobEventRetention))
	require.NoError(t, sched.RunNow(context.Background(), scheduler.JobTempSweep))
}

func TestRunJobsUsage(t *testing.T) {
	for _, args := range [][]string{{"run"}, {"start", "x"}, {"run", "a", "b"}} {
		assert.Error(t, runJobs(args), args)
	}
}
