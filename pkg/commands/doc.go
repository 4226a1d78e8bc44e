// Package commands is the bridge between interactive chat commands and the
// control API.
//
// A Bridge holds an explicit table of commands (status, missing, search).
// Execute runs one invocation through a fixed lifecycle:
//
//	Received -> Authorizing -> Rejected
//	                        -> Dispatching -> Completed | Failed
//
// The caller is checked against the allow-list before anything else; a
// rejected caller never causes a control API request. Arguments are validated
// against each command's option bounds, the control API is called once, and
// the answer (or the failure) is mapped to a localized notification.Record.
// Upstream failures are shown to users only through controlapi.Reason.
//
//	bridge := commands.New(apiClient, store, commands.WithAllowedUsers(cfg.AllowedUserIDs...))
//	res, err := bridge.Execute(ctx, commands.Request{
//	    Command: "missing",
//	    Args:    commands.LimitArg(10),
//	    Caller:  userID,
//	})
package commands
