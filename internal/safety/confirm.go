package safety

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// tokenTTL bounds how long a requested confirmation stays redeemable.
const tokenTTL = 5 * time.Minute

// request records what a confirmation token was issued for.
type request struct {
	tool     string
	resource string
	detail   string
	issued   time.Time
}

// ConfirmationTracker hands out single-use, time-limited confirmation
// tokens for destructive operations, such as removing vCenter credentials
// from an nPod or deleting a key-value entry. A destructive tool called
// without a token returns one to the caller; only a follow-up call
// presenting that token performs the operation.
type ConfirmationTracker struct {
	destructive map[string]struct{}

	mu      sync.Mutex
	pending map[string]request
}

// NewConfirmationTracker returns a tracker whose set of tools requiring
// explicit confirmation is defined by destructiveTools (for example
// vsphere_creds_delete or keyvalue_manage). A nil or empty slice means no
// tool requires confirmation.
func NewConfirmationTracker(destructiveTools []string) *ConfirmationTracker {
	ct := &ConfirmationTracker{
		destructive: make(map[string]struct{}, len(destructiveTools)),
		pending:     make(map[string]request),
	}
	for _, tool := range destructiveTools {
		ct.destructive[tool] = struct{}{}
	}
	return ct
}

// NeedsConfirmation reports whether tool is in the destructive-tools set.
func (ct *ConfirmationTracker) NeedsConfirmation(tool string) bool {
	_, ok := ct.destructive[tool]
	return ok
}

// RequestConfirmation issues a new confirmation token for the given tool,
// resource, and description. Tokens are valid for 5 minutes and are
// single-use.
func (ct *ConfirmationTracker) RequestConfirmation(tool, resource, detail string) string {
	token := generateToken()

	ct.mu.Lock()
	ct.sweepExpired()
	ct.pending[token] = request{
		tool:     tool,
		resource: resource,
		detail:   detail,
		issued:   time.Now(),
	}
	ct.mu.Unlock()

	return token
}

// Confirm consumes the given token and reports whether it was valid and
// unexpired. A consumed token never confirms a second time.
func (ct *ConfirmationTracker) Confirm(token string) bool {
	if token == "" {
		return false
	}

	ct.mu.Lock()
	defer ct.mu.Unlock()

	req, ok := ct.pending[token]
	if !ok {
		return false
	}
	delete(ct.pending, token)

	return time.Since(req.issued) <= tokenTTL
}

// sweepExpired drops every pending request older than tokenTTL. The caller
// must hold ct.mu.
func (ct *ConfirmationTracker) sweepExpired() {
	for token, req := range ct.pending {
		if time.Since(req.issued) > tokenTTL {
			delete(ct.pending, token)
		}
	}
}

// generateToken returns a cryptographically random hex-encoded token.
func generateToken() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand should never fail; a timestamp-derived token keeps
		// the tracker usable if it somehow does.
		return hex.EncodeToString([]byte(time.Now().String()))
	}
	return hex.EncodeToString(b[:])
}
