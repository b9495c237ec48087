package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	contract "invitedesk/contracts/invites"
	dErrors "invitedesk/pkg/domain-errors"
	"invitedesk/pkg/platform/httputil"
	"invitedesk/pkg/platform/middleware/client"
	request "invitedesk/pkg/platform/middleware/request"
)

// Service is the demo backend as seen by HTTP. *demo.Backend implements it.
type Service interface {
	Login(ctx context.Context, username, password string) (*contract.LoginResponse, error)
	GenerateOTP(ctx context.Context, bearer string) (*contract.GenerateOTPResponse, error)
	VerifyOTP(ctx context.Context, bearer string, req contract.OTPRequest) (*contract.OTPResponse, error)
	ValidateOTP(ctx context.Context, req contract.OTPRequest) (*contract.OTPResponse, error)
	CurrentCode(ctx context.Context, username string) (string, error)
	ListInvites(ctx context.Context, bearer string) (*contract.InviteCodesResponse, error)
	CreateInvites(ctx context.Context, bearer string, req contract.CreateInviteCodesRequest) (*contract.Ack, error)
	DisableInvite(ctx context.Context, bearer string, req contract.DisableInviteCodeRequest) (*contract.Ack, error)
	ListAdmins(ctx context.Context, bearer string) (*contract.AdminsResponse, error)
	AddAdmin(ctx context.Context, bearer string, req contract.AddAdminRequest) (*contract.AddAdminResponse, error)
	RemoveAdmin(ctx context.Context, bearer, username string) (*contract.Ack, error)
	ResolveDID(ctx context.Context, did string) (*contract.DIDDocument, error)
}

// Handler serves the invite manager API and a DID directory.
type Handler struct {
	service Service
	logger  *slog.Logger
	// logOTPCodes logs the current OTP code whenever a login needs one.
	logOTPCodes bool
}

func New(service Service, logger *slog.Logger, logOTPCodes bool) *Handler {
	return &Handler{service: service, logger: logger, logOTPCodes: logOTPCodes}
}

// Register registers the API routes with the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", h.HandleLogin)
		r.Get("/auth/otp/generate", h.HandleGenerateOTP)
		r.Post("/auth/otp/verify", h.HandleVerifyOTP)
		r.Post("/auth/otp/validate", h.HandleValidateOTP)

		r.Get("/invite-codes", h.HandleListInvites)
		r.Post("/create-invite-codes", h.HandleCreateInvites)
		r.Post("/disable-invite-codes", h.HandleDisableInvite)

		r.Get("/admins", h.HandleListAdmins)
		r.Post("/admins", h.HandleAddAdmin)
		r.Delete("/admins/{username}", h.HandleRemoveAdmin)
	})
	r.Get("/directory/{did}", h.HandleResolveDID)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	req, ok := httputil.DecodeJSON[contract.LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	resp, err := h.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.InfoContext(ctx, "login failed",
			"error", err,
			"client", client.FromContext(ctx).Display,
			"network", client.FromContext(ctx).Network,
			"request_id", requestID,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "login step completed",
		"otp_enabled", resp.OTPEnabled,
		"otp_verified", resp.OTPVerified,
		"client", client.FromContext(ctx).Display,
		"network", client.FromContext(ctx).Network,
		"request_id", requestID,
	)
	if resp.Token == "" {
		h.hintOTPCode(ctx, req.Username)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGenerateOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp, err := h.service.GenerateOTP(ctx, httputil.BearerToken(r))
	if err != nil {
		h.fail(ctx, w, "otp generate failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[contract.OTPRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.VerifyOTP(ctx, httputil.BearerToken(r), *req)
	if err != nil {
		h.fail(ctx, w, "otp verify failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleValidateOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[contract.OTPRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.ValidateOTP(ctx, *req)
	if err != nil {
		h.fail(ctx, w, "otp validate failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleListInvites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp, err := h.service.ListInvites(ctx, httputil.BearerToken(r))
	if err != nil {
		h.fail(ctx, w, "list invites failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleCreateInvites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[contract.CreateInviteCodesRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.CreateInvites(ctx, httputil.BearerToken(r), *req)
	if err != nil {
		h.fail(ctx, w, "create invites failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleDisableInvite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[contract.DisableInviteCodeRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.DisableInvite(ctx, httputil.BearerToken(r), *req)
	if err != nil {
		h.fail(ctx, w, "disable invite failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp, err := h.service.ListAdmins(ctx, httputil.BearerToken(r))
	if err != nil {
		h.fail(ctx, w, "list admins failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleAddAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[contract.AddAdminRequest](w, r, h.logger, ctx, request.GetRequestID(ctx))
	if !ok {
		return
	}
	resp, err := h.service.AddAdmin(ctx, httputil.BearerToken(r), *req)
	if err != nil {
		h.fail(ctx, w, "add admin failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) HandleRemoveAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")
	resp, err := h.service.RemoveAdmin(ctx, httputil.BearerToken(r), username)
	if err != nil {
		h.fail(ctx, w, "remove admin failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleResolveDID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	doc, err := h.service.ResolveDID(ctx, chi.URLParam(r, "did"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, doc)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	level := slog.LevelWarn
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) || domainErr.Code == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"error", err,
		"request_id", request.GetRequestID(ctx),
	)
	httputil.WriteError(w, err)
}

func (h *Handler) hintOTPCode(ctx context.Context, username string) {
	if !h.logOTPCodes {
		return
	}
	code, err := h.service.CurrentCode(ctx, username)
	if err != nil {
		return
	}
	h.logger.InfoContext(ctx, "demo otp code", "username", username, "code", code)
}
