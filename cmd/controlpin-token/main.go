// Command controlpin-token mints an operator token for the control pin
// service. The secret is read from PIN_ADMIN_SECRET.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aussiebroadwan/controlpin/pkg/jwtx"
)

func main() {
	subject := flag.String("sub", "", "operator identifier (required)")
	issuer := flag.String("iss", envOr("PIN_ISSUER", "controlpin"), "token issuer")
	scopes := flag.String("scopes", jwtx.ScopeIssue, "comma separated scopes (pin:issue, pin:audit)")
	ttl := flag.Duration("ttl", jwtx.DefaultAdminTokenTTL, "token lifetime")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "-sub is required")
		flag.Usage()
		os.Exit(2)
	}

	signer, err := jwtx.NewHS256Signer([]byte(os.Getenv("PIN_ADMIN_SECRET")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "PIN_ADMIN_SECRET: %v\n", err)
		os.Exit(1)
	}

	claims := jwtx.NewAdminClaims(*subject, *issuer, splitScopes(*scopes), *ttl, time.Now())
	token, err := signer.Sign(claims)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}

func splitScopes(s string) []string {
	var out []string
	for _, scope := range strings.Split(s, ",") {
		if scope = strings.TrimSpace(scope); scope != "" {
			out = append(out, scope)
		}
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
