// Package procsim provides a headless process lifecycle simulator.
//
// A run creates a fixed set of simulated processes, each with a unique
// priority, and drives them concurrently through New, Ready, Running,
// Blocked and Terminated. Priority scales the length of every Running
// phase; a single pause gate suspends all processes at their next phase
// boundary. The engine emits state and completion notifications and leaves
// rendering to the host:
//
//	srv := procsim.New(procsim.WithConfig(cfg))
//	ctrl := srv.Controller()
//	ctrl.OnProcessEvent(func(e controller.ProcessEvent) { ... })
//	ctrl.OnRunComplete(func(r process.RunReport) { ... })
//	_ = ctrl.StartRun(ctx, 3)
//	report, _ := ctrl.Wait(ctx)
//
// Run reports are persisted through a dao.Service, in memory by default or
// as JSON documents when a report URL is configured.
package procsim
