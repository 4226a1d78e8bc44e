// Package delivery fans a notification out to a fixed set of chat targets.
//
// Every target gets exactly one send attempt. Sends run concurrently, one
// goroutine per target, and are joined before Deliver returns a Report listing
// one Outcome per target in configured order. A failing or panicking target
// never prevents attempts on the others, and nothing is retried.
//
//	targets := delivery.Targets(cfg.ChannelID, cfg.AllowedUserIDs)
//	fan := delivery.NewFanOut(platform, targets, delivery.WithLogger(log))
//
//	report := fan.Deliver(ctx, rec)
//	if report.Failed() > 0 {
//		// already logged per target
//	}
package delivery
