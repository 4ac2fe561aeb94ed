package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"

	"github.com/and161185/goalplay-inventory/internal/auth"
	"github.com/and161185/goalplay-inventory/internal/errs"
	"github.com/and161185/goalplay-inventory/internal/model"
)

type updateKitRequest struct {
	Name           string `json:"name"           binding:"omitempty,max=100"`
	PrimaryColor   string `json:"primaryColor"   binding:"omitempty,kitcolor"`
	SecondaryColor string `json:"secondaryColor" binding:"omitempty,kitcolor"`
	LogoURL        string `json:"logoUrl"        binding:"omitempty,url,max=2048"`
}

// farmingRequest accepts any farmingType value; anything that is not a known type string
// resolves to the general reward downstream.
type farmingRequest struct {
	FarmingType json.RawMessage `json:"farmingType"`
}

func (r farmingRequest) farmingType() string {
	var t string
	if len(r.FarmingType) == 0 || json.Unmarshal(r.FarmingType, &t) != nil {
		return ""
	}
	return t
}

func (s *Server) health(c *gin.Context) {
	if s.db != nil {
		if err := s.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listOwned(c *gin.Context) {
	userID, ok := s.caller(c)
	if !ok {
		return
	}
	out, err := s.inv.ListOwned(c.Request.Context(), userID)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getKit(c *gin.Context) {
	ownedID, userID, ok := s.target(c)
	if !ok {
		return
	}
	k, err := s.inv.GetKit(c.Request.Context(), ownedID, userID)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, k)
}

func (s *Server) updateKit(c *gin.Context) {
	ownedID, userID, ok := s.target(c)
	if !ok {
		return
	}
	if !s.owns(c, ownedID, userID) {
		return
	}
	var req updateKitRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	k, err := s.inv.UpdateKit(c.Request.Context(), ownedID, userID, model.KitPatch{
		Name:           req.Name,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		LogoURL:        req.LogoURL,
	})
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, k)
}

func (s *Server) listKits(c *gin.Context) {
	ownedID, userID, ok := s.target(c)
	if !ok {
		return
	}
	kits, err := s.inv.ListKits(c.Request.Context(), ownedID, userID)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, kits)
}

func (s *Server) getProgression(c *gin.Context) {
	ownedID, userID, ok := s.target(c)
	if !ok {
		return
	}
	p, err := s.inv.GetProgression(c.Request.Context(), ownedID, userID)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) getFarmingStatus(c *gin.Context) {
	ownedID, userID, ok := s.target(c)
	if !ok {
		return
	}
	st, err := s.inv.GetFarmingStatus(c.Request.Context(), ownedID, userID)
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) processFarming(c *gin.Context) {
	ownedID, userID, ok := s.target(c)
	if !ok {
		return
	}
	if !s.owns(c, ownedID, userID) {
		return
	}
	var req farmingRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	res, err := s.inv.ProcessFarming(c.Request.Context(), ownedID, userID, req.farmingType())
	if err != nil {
		writeError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// caller returns the authenticated user ID placed in the context by Auth.
func (s *Server) caller(c *gin.Context) (uuid.UUID, bool) {
	id, ok := auth.UserIDFromCtx(c.Request.Context())
	if !ok {
		writeError(c, s.log, errs.ErrUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}

// target resolves the caller and the {id} path parameter. A malformed id cannot match any
// owned player and is answered like one the caller does not own.
func (s *Server) target(c *gin.Context) (ownedID, userID uuid.UUID, ok bool) {
	userID, ok = s.caller(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	ownedID, err := uuid.FromString(c.Param("id"))
	if err != nil {
		writeError(c, s.log, errs.ErrNotAuthorized)
		return uuid.Nil, uuid.Nil, false
	}
	return ownedID, userID, true
}

// owns runs the ownership guard ahead of body validation on routes that take a body.
func (s *Server) owns(c *gin.Context, ownedID, userID uuid.UUID) bool {
	if err := s.inv.VerifyOwner(c.Request.Context(), ownedID, userID); err != nil {
		writeError(c, s.log, err)
		return false
	}
	return true
}

// bindOptionalJSON binds and validates a JSON body; an empty body leaves obj zero-valued.
func bindOptionalJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		abortWithStatus(c, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}
