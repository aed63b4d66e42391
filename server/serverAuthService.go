package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/liveclass/quizServer/apikey"
	"github.com/liveclass/quizServer/server/rr"
	"github.com/liveclass/quizServer/util"
	"github.com/yl2chen/cidranger"
)

const apiKeyHeader = "X-Api-Key"

// AuthService gates presenter endpoints : every privileged request is
// verified from scratch against the process-wide public key, nothing
// is cached between calls.
type AuthService struct {
	instance *Instance

	// claim ctx key
	ctxClaimKey *struct{ name string }

	// optional presenter network restriction, nil = allow all
	cidrChecker cidranger.Ranger
}

func NewAuthService(instance *Instance) *AuthService {
	svc := &AuthService{}

	svc.instance = instance
	svc.ctxClaimKey = &struct{ name string }{"CLAIM"}

	if cidr := instance.config.presenterCIDR; cidr != "" {
		_, network, e := net.ParseCIDR(cidr)
		if e != nil {
			util.Die("Broken presenter CIDR : " + cidr)
		}

		ranger := cidranger.NewPCTrieRanger()
		e = ranger.Insert(cidranger.NewBasicRangerEntry(*network))
		util.CheckAndDie(e)

		svc.cidrChecker = ranger
	}

	return svc
}

// ApiKeyAuthenticator verifies the X-Api-Key header and stores the
// resulting claim in the request context.
func (svc *AuthService) ApiKeyAuthenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !svc.checkStringCIDR(r.RemoteAddr) {
			rr.WriteResponseEntity(w, rr.KoResponse(http.StatusForbidden, "presenter address not allowed"))
			return
		}

		claim, err := svc.instance.verifier.Verify(r.Header.Get(apiKeyHeader))
		if err != nil {
			rr.WriteResponseEntity(w, rejectionResponse(err))
			return
		}

		ctx := context.WithValue(r.Context(), svc.ctxClaimKey, claim)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func rejectionResponse(err error) rr.ResponseEntity {
	switch {
	case errors.Is(err, apikey.ErrExpiredKey):
		return rr.KoResponse(http.StatusForbidden, "Token expired")
	case errors.Is(err, apikey.ErrRevokedKey):
		return rr.KoResponse(http.StatusForbidden, "Token revoked")
	default:
		return rr.UnauthorizedResponse
	}
}

// check CIDR range match for remote address, no checker means no restriction
func (svc *AuthService) checkStringCIDR(addr string) bool {
	if svc.cidrChecker == nil {
		return true
	}

	ip := util.GetIPFromAddress(addr)
	if ip == nil {
		return false
	}

	contains, e := svc.cidrChecker.Contains(ip)
	if e != nil {
		return false
	}
	return contains
}

// claimFromContext returns the verified claim set by ApiKeyAuthenticator.
func (svc *AuthService) claimFromContext(ctx context.Context) (*apikey.Claim, bool) {
	claim, ok := ctx.Value(svc.ctxClaimKey).(*apikey.Claim)
	return claim, ok
}

// RevokeHandler
// add a token ID to the process-wide revocation list
func (svc *AuthService) RevokeHandler(rw http.ResponseWriter, req *http.Request) {
	claim, ok := svc.claimFromContext(req.Context())
	if !ok {
		rr.WriteResponseEntity(rw, rr.UnauthorizedResponse)
		return
	}

	rr.WriteResponseEntity(rw, svc.revoke(claim, req))
}

func (svc *AuthService) revoke(claim *apikey.Claim, req *http.Request) rr.ResponseEntity {
	var response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	tokenID := chi.URLParam(req, "tokenID")
	if tokenID == "" {
		return rr.BadRequestResponse
	}

	svc.instance.revoked.Revoke(tokenID)

	logger.Info("token ", tokenID, " revoked by ", claim.Email)

	response.Status = "success"
	response.Message = "Token " + tokenID + " has been revoked"

	return rr.OkResponse(response)
}
