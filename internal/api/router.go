// Package api is the HTTP transport for the protocol engine: one gin
// handler per endpoint named in spec.md §6, translating between the wire
// DTOs in dto.go and the pkg/registry + session API.
package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noiseproto/binomial-dp/pkg/registry"
	"github.com/noiseproto/binomial-dp/session"
)

// Handler holds the registry every request is dispatched against.
type Handler struct {
	reg *registry.Registry
	// allowCheatEndpoint gates the overwrite-xor-bits test/cheat surface
	// (spec.md §6, §7 "malicious participant"): disabled unless a caller
	// explicitly opts in, since it lets a client publish noise it never
	// actually committed to.
	allowCheatEndpoint bool
}

// Option configures a Handler.
type Option func(*Handler)

// WithCheatEndpoint enables POST .../xor-bits:overwrite. Intended only for
// scenario tests exercising the soundness check (spec.md §8, S-series).
func WithCheatEndpoint() Option {
	return func(h *Handler) { h.allowCheatEndpoint = true }
}

// NewRouter builds the gin engine for a fresh registry.
func NewRouter(reg *registry.Registry, opts ...Option) *gin.Engine {
	h := &Handler{reg: reg}
	for _, opt := range opts {
		opt(h)
	}

	r := gin.Default()
	g := r.Group("/sessions")
	{
		g.POST("", h.createSession)
		g.GET("/:id/input-commits", h.getInputCommits)
		g.POST("/:id/private-randomness", h.postPrivateRandomness)
		g.GET("/:id/private-random-commits", h.getPrivateRandomCommits)
		g.GET("/:id/public-random", h.getPublicRandom)
		g.POST("/:id/biased-p/init", h.postBiasedInit)
		g.POST("/:id/biased-p/range", h.postBiasedRange)
		g.POST("/:id/biased-p/end", h.postBiasedEnd)
		g.GET("/:id/xor-bits", h.getXorBits)
		g.GET("/:id/xor-commits", h.getXorCommits)
		g.POST("/:id/xor-bits:overwrite", h.postOverwriteXorBits)
		g.POST("/:id/sum", h.postSum)
		g.GET("/:id/z", h.getZ)
		g.POST("/:id/finalise", h.postFinalise)
		g.GET("/:id/lhs", h.getLhs)
		g.GET("/:id/rhs", h.getRhs)
	}
	return r
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// writeError maps a registry/session error to an HTTP status following
// SPEC_FULL.md §7: not-found to 404, protocol/malformed/invariant
// failures to 400/409, never a bare 5xx for an expected protocol state.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, registry.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		var sessErr *session.Error
		if errors.As(err, &sessErr) {
			switch sessErr.Kind {
			case session.KindProtocolSequence:
				c.JSON(http.StatusConflict, errorResponse{Error: sessErr.Error()})
			case session.KindMalformedInput:
				c.JSON(http.StatusBadRequest, errorResponse{Error: sessErr.Error()})
			case session.KindInvariantFail:
				c.JSON(http.StatusBadRequest, errorResponse{Error: sessErr.Error()})
			default:
				c.JSON(http.StatusInternalServerError, errorResponse{Error: sessErr.Error()})
			}
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func (h *Handler) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	id, err := newSessionID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	sess, err := h.reg.Create(id, req.Bits)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createSessionResponse{
		ID:             id,
		InputCommits:   pointsToDTO(sess.InputCommitments()),
		XSum:           scalarDTO(sess.XSum()),
		CommitmentsSum: pointDTO(sess.CommitmentsSum()),
	})
}

func (h *Handler) getInputCommits(c *gin.Context) {
	sess, err := h.reg.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"input_commits": pointsToDTO(sess.InputCommitments())})
}

func (h *Handler) postPrivateRandomness(c *gin.Context) {
	var req privateRandomnessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err := h.reg.With(c.Param("id"), func(s *session.Session) error {
		return s.InputRandomness(req.Bits)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, acceptedResponse{Accepted: true})
}

func (h *Handler) getPrivateRandomCommits(c *gin.Context) {
	sess, err := h.reg.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"private_random_commits": pointsToDTO(sess.PrivateRandomCommitments())})
}

func (h *Handler) getPublicRandom(c *gin.Context) {
	sess, err := h.reg.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"public_random": sess.PublicRandomness()})
}

func (h *Handler) postBiasedInit(c *gin.Context) {
	var req randPInitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	err := h.reg.With(c.Param("id"), func(s *session.Session) error {
		return s.RandPInit(req.N)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, acceptedResponse{Accepted: true})
}

func (h *Handler) postBiasedRange(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	var accepted bool
	err := h.reg.With(c.Param("id"), func(s *session.Session) error {
		var err error
		accepted, err = s.RandomVariablePInput(req.K, req.M, req.Bits)
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, acceptedResponse{Accepted: accepted})
}

func (h *Handler) postBiasedEnd(c *gin.Context) {
	var accepted bool
	err := h.reg.With(c.Param("id"), func(s *session.Session) error {
		var err error
		accepted, err = s.RandomVariablePEnd()
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, acceptedResponse{Accepted: accepted})
}

func (h *Handler) getXorBits(c *gin.Context) {
	sess, err := h.reg.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"xor_bits": sess.XorBits()})
}

func (h *Handler) getXorCommits(c *gin.Context) {
	sess, err := h.reg.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"xor_commits": pointsToDTO(sess.XorCommitments())})
}

func (h *Handler) postOverwriteXorBits(c *gin.Context) {
	if !h.allowCheatEndpoint {
		c.JSON(http.StatusForbidden, errorResponse{Error: "overwrite endpoint disabled"})
		return
	}
	var req overwriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	err := h.reg.With(c.Param("id"), func(s *session.Session) error {
		return s.OverwriteXorBits(req.Bits)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, acceptedResponse{Accepted: true})
}

func (h *Handler) postSum(c *gin.Context) {
	var count uint64
	err := h.reg.With(c.Param("id"), func(s *session.Session) error {
		if err := s.ComputeSum(); err != nil {
			return err
		}
		count = s.ComputedCount()
		return nil
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sumResponse{Count: count})
}

func (h *Handler) getZ(c *gin.Context) {
	sess, err := h.reg.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"z": scalarDTO(sess.FinalZ())})
}

func (h *Handler) postFinalise(c *gin.Context) {
	var res session.Result
	err := h.reg.With(c.Param("id"), func(s *session.Session) error {
		var err error
		res, err = s.Finalize()
		return err
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, finalizeResponse{
		Count:         res.Count,
		Sound:         res.Sound,
		Cheating:      !res.Sound,
		ProofFailures: res.ProofFailures,
	})
}

func (h *Handler) getLhs(c *gin.Context) {
	sess, err := h.reg.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lhs": pointDTO(sess.Lhs())})
}

func (h *Handler) getRhs(c *gin.Context) {
	sess, err := h.reg.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rhs": pointDTO(sess.Rhs())})
}
