package apikey

import (
	"sync"

	"github.com/sirupsen/logrus"
)

var logger = logrus.WithField("module", "ApiKey")

// RevocationList is the process-wide set of revoked token IDs.
// Like the page store it is volatile, revocations die with the process.
type RevocationList struct {
	mtx      sync.RWMutex
	tokenIDs map[string]struct{}
}

func NewRevocationList() *RevocationList {
	return &RevocationList{tokenIDs: make(map[string]struct{})}
}

func (rl *RevocationList) Revoke(tokenID string) {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	rl.tokenIDs[tokenID] = struct{}{}
	logger.Info("token ", tokenID, " added to revocation list")
}

func (rl *RevocationList) IsRevoked(tokenID string) bool {
	rl.mtx.RLock()
	defer rl.mtx.RUnlock()

	_, revoked := rl.tokenIDs[tokenID]
	return revoked
}
