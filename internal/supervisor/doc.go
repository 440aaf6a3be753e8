// Coursepair - Course Co-Purchase Recommendations and Value Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepair

/*
Package supervisor provides process supervision for coursepair using suture v4.

The tree separates the batch run from the optional metrics listener so a
listener crash never interrupts a run:

	RootSupervisor ("coursepair")
	├── BatchSupervisor ("batch-layer")
	│   └── BatchService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (if metrics.listen_addr is set)

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(),
	    supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
	    return err
	}

	batch := services.NewBatchService(runner)
	tree.AddBatchService(batch)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-batch.Done()

# Failure Handling

Failures decay exponentially over FailureDecay seconds. When the counter
exceeds FailureThreshold the supervisor waits FailureBackoff before the
next restart. The batch service never asks to be restarted: a finished
run, failed or not, returns suture.ErrDoNotRestart.

# Debugging Shutdown Issues

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("Service didn't stop: %v", svc)
	}

A slow query that ignores cancellation is the usual cause.
*/
package supervisor
