// Package environment names the deployment environment (development, staging,
// production) and carries it through context.Context.
//
// Parse turns the APP_ENV value into an Environment; WithContext and
// FromContext store and read it, and IsProduction / IsDevelopment are the
// predicates used by startup code.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	ctx = environment.WithContext(ctx, env)
//	if environment.IsProduction(ctx) {
//	    // production-specific behaviour
//	}
package environment
