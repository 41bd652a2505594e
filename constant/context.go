package constant

type contextKey string

// ClaimsKey holds the validated *model.TokenClaims of the caller.
const ClaimsKey contextKey = "claims"
