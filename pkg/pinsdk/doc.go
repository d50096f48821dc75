/*
Package pinsdk provides a client SDK for the controlpin access code service.

# Overview

Two kinds of callers talk to the service:

  - Operators holding an admin bearer token issue a new access code with
    GenerateAccessCode. The plain code is only ever returned by that call.
  - Clients guarding a sensitive action submit a candidate code with Verify.

	client := pinsdk.NewClient("https://controlpin.example.com")

	// Issue a code (requires the pin:issue scope)
	admin := client.WithToken(adminToken)
	code, err := admin.GenerateAccessCode(ctx)

	// Verify a candidate for the verify-pin action
	res, err := client.Verify(ctx, "verify-pin", "4821")
	if res.Authorized {
		// proceed
	}

# Errors

Verification denials are not errors: Verify returns a VerifyResponse with
Authorized set to false. Admission rejections are returned as a
*RateLimitedError carrying the server's retry hint:

	var rl *pinsdk.RateLimitedError
	if errors.As(err, &rl) {
		time.Sleep(rl.RetryAfter)
	}

Every other failure is an *APIError with the HTTP status and the
{error, error_description} body sent by the server.
*/
package pinsdk
