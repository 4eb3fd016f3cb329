package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jsamuelsen/marketing-site/internal/adapters/http/dto"
	"github.com/jsamuelsen/marketing-site/internal/app"
	"github.com/jsamuelsen/marketing-site/internal/domain"
	"github.com/jsamuelsen/marketing-site/internal/platform/logging"
	"github.com/jsamuelsen/marketing-site/internal/ui/controller"
	"github.com/jsamuelsen/marketing-site/internal/ui/modal"
)

// SessionPath is the websocket route of the interaction session.
const SessionPath = "/ws/session"

// Client message types.
const (
	MsgOpenLeadMagnet   = "openLeadMagnet"
	MsgCloseLeadMagnet  = "closeLeadMagnet"
	MsgOpenCalendly     = "openCalendly"
	MsgCloseCalendly    = "closeCalendly"
	MsgSelectProject    = "selectProject"
	MsgCloseProject     = "closeProject"
	MsgSelectCaseStudy  = "selectCaseStudy"
	MsgCloseCaseStudy   = "closeCaseStudy"
	MsgOpenCertificate  = "openCertificate"
	MsgCloseCertificate = "closeCertificate"
	MsgCertificateError = "certificateError"
	MsgCertificateRetry = "certificateRetry"
	MsgKeyDown          = "keydown"
	MsgScroll           = "scroll"
	MsgBackdrop         = "backdrop"
	MsgHeroClick        = "heroClick"
	MsgToggleMenu       = "toggleMenu"
	MsgNavigate         = "navigate"
	MsgDismissBanner    = "dismissBanner"
	MsgMeasureMarquee   = "measureMarquee"
	MsgSubmitLead       = "submitLead"
)

// Server message types.
const (
	MsgFrame = "frame"
	MsgError = "error"
)

// errUnknownMessage is reported to the client for an unrecognized type.
var errUnknownMessage = errors.New("unknown message type")

// ClientMessage is a message from the page script.
type ClientMessage struct {
	Type   string  `json:"type"`
	Slug   string  `json:"slug,omitempty"`
	Key    string  `json:"key,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Modal  string  `json:"modal,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Email  string  `json:"email,omitempty"`
	Source string  `json:"source,omitempty"`
}

// ServerMessage is a message to the page script.
type ServerMessage struct {
	Type  string            `json:"type"`
	Frame *controller.Frame `json:"frame,omitempty"`
	Error *dto.ErrorDetail  `json:"error,omitempty"`
}

// SessionConfig tunes the websocket.
type SessionConfig struct {
	WriteWait  time.Duration
	PongWait   time.Duration
	PingPeriod time.Duration
	ReadLimit  int64

	// FrameInterval is the minimum gap between two frames. Changes made
	// in between are folded into the next frame.
	FrameInterval time.Duration
}

// sessionEvents is the subset of telemetry.Collectors the handler records.
type sessionEvents interface {
	SessionEvent(msgType string)
}

// SessionHandler serves live interaction sessions. Each connection owns
// one mounted controller for its lifetime.
type SessionHandler struct {
	pages    *app.PageService
	cfg      SessionConfig
	upgrader websocket.Upgrader
	metrics  sessionEvents
	logger   *slog.Logger

	// root parents every session; CloseAll cancels it.
	root     context.Context
	closeAll context.CancelFunc
}

// NewSessionHandler creates a session handler. metrics may be nil.
func NewSessionHandler(pages *app.PageService, cfg SessionConfig, metrics sessionEvents, logger *slog.Logger) *SessionHandler {
	if logger == nil {
		logger = slog.Default()
	}

	root, closeAll := context.WithCancel(context.Background())

	return &SessionHandler{
		pages:    pages,
		cfg:      cfg,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "handlers.Session")),
		root:     root,
		closeAll: closeAll,
	}
}

// CloseAll ends every open session with a normal close frame. The HTTP
// server does not track hijacked connections, so shutdown must call this.
func (h *SessionHandler) CloseAll() {
	h.closeAll()
}

// Serve handles GET /ws/session. The controller is opened before the
// upgrade so a disabled session answers with a plain 403.
func (h *SessionHandler) Serve(c *gin.Context) {
	ctx := logging.WithSessionID(c.Request.Context(), uuid.NewString())
	logger := logging.FromContextOr(ctx, h.logger)

	sess, err := h.pages.Open(ctx)
	if err != nil {
		dto.HandleError(c, err)
		return
	}
	defer sess.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.DebugContext(ctx, "session upgrade failed", slog.Any("error", err))
		return
	}
	defer conn.Close()

	logger.InfoContext(ctx, "session opened")
	h.run(ctx, conn, sess)
	logger.InfoContext(ctx, "session closed")
}

// run pumps messages until the client goes away. It returns after the
// writer and any in-flight lead submission have finished.
func (h *SessionHandler) run(ctx context.Context, conn *websocket.Conn, sess *app.Session) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(h.root, cancel)
	defer stop()

	notify := make(chan struct{}, 1)
	notify <- struct{}{}
	remove := sess.OnChange(func(uint64) {
		select {
		case notify <- struct{}{}:
		default:
		}
	})
	defer remove()

	outbox := make(chan ServerMessage, 8)

	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer conn.Close()
		h.writeLoop(ctx, conn, sess, notify, outbox)
	}()

	conn.SetReadLimit(h.cfg.ReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	logger := logging.FromContextOr(ctx, h.logger)

	// A cancelled session closes conn from the writer, which ends the read.
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.DebugContext(ctx, "session read failed", slog.Any("error", err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.send(outbox, domain.NewValidationError("message", "malformed JSON"))
			continue
		}

		if msg.Type == MsgSubmitLead {
			h.record(msg.Type)
			wg.Add(1)
			go func() {
				defer wg.Done()
				// The outcome reaches the client in the form state.
				_, _ = sess.SubmitLead(ctx, leadSource(msg.Source), msg.Email)
			}()
			continue
		}

		if err := h.dispatch(sess.Controller, msg); err != nil {
			h.send(outbox, err)
		}
	}
}

// writeLoop owns every write to conn.
func (h *SessionHandler) writeLoop(
	ctx context.Context,
	conn *websocket.Conn,
	sess *app.Session,
	notify <-chan struct{},
	outbox <-chan ServerMessage,
) {
	ping := time.NewTicker(h.cfg.PingPeriod)
	defer ping.Stop()

	write := func(fn func() error) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
		return fn() == nil
	}

	for {
		select {
		case <-ctx.Done():
			write(func() error {
				return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			})
			return

		case <-notify:
			frame := sess.Snapshot()
			if !write(func() error { return conn.WriteJSON(ServerMessage{Type: MsgFrame, Frame: &frame}) }) {
				return
			}

			if h.cfg.FrameInterval > 0 {
				timer := time.NewTimer(h.cfg.FrameInterval)
				select {
				case <-timer.C:
				case <-ctx.Done():
					timer.Stop()
					return
				}
			}

		case msg := <-outbox:
			if !write(func() error { return conn.WriteJSON(msg) }) {
				return
			}

		case <-ping.C:
			if !write(func() error { return conn.WriteMessage(websocket.PingMessage, nil) }) {
				return
			}
		}
	}
}

// dispatch applies one client message to ctrl.
func (h *SessionHandler) dispatch(ctrl *controller.Controller, msg ClientMessage) error {
	var err error

	switch msg.Type {
	case MsgOpenLeadMagnet:
		ctrl.OpenLeadMagnet()
	case MsgCloseLeadMagnet:
		ctrl.CloseLeadMagnet()
	case MsgOpenCalendly:
		ctrl.OpenCalendly()
	case MsgCloseCalendly:
		ctrl.CloseCalendly()
	case MsgSelectProject:
		err = ctrl.SelectProjectBySlug(msg.Slug)
	case MsgCloseProject:
		ctrl.CloseProject()
	case MsgSelectCaseStudy:
		err = ctrl.SelectCaseStudyBySlug(msg.Slug)
	case MsgCloseCaseStudy:
		ctrl.CloseCaseStudy()
	case MsgOpenCertificate:
		ctrl.OpenCertificate()
	case MsgCloseCertificate:
		ctrl.CloseCertificate()
	case MsgCertificateError:
		ctrl.CertificateError()
	case MsgCertificateRetry:
		ctrl.CertificateRetry()
	case MsgKeyDown:
		ctrl.KeyDown(msg.Key)
	case MsgScroll:
		ctrl.Scroll(msg.Y)
	case MsgBackdrop:
		name, ok := modalName(msg.Modal)
		if !ok {
			err = domain.NewValidationErrorWithValue("modal", "unknown overlay", msg.Modal)
			break
		}
		ctrl.Click(name, modal.TargetBackdrop)
	case MsgHeroClick:
		ctrl.HeroClick()
	case MsgToggleMenu:
		ctrl.ToggleMenu()
	case MsgNavigate:
		ctrl.Navigate()
	case MsgDismissBanner:
		ctrl.DismissBanner()
	case MsgMeasureMarquee:
		ctrl.MeasureMarquee(msg.Width)
	default:
		h.record("unknown")
		return domain.NewValidationErrorWithValue("type", errUnknownMessage.Error(), msg.Type)
	}

	h.record(msg.Type)

	return err
}

// send queues an error report, dropping it when the writer is behind.
func (h *SessionHandler) send(outbox chan<- ServerMessage, err error) {
	select {
	case outbox <- errorMessage(err):
	default:
	}
}

func (h *SessionHandler) record(msgType string) {
	if h.metrics != nil {
		h.metrics.SessionEvent(msgType)
	}
}

// RegisterRoutes mounts the session socket.
func (h *SessionHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET(SessionPath, h.Serve)
}

func modalName(s string) (controller.ModalName, bool) {
	switch name := controller.ModalName(s); name {
	case controller.ModalLeadMagnet, controller.ModalCalendly, controller.ModalProject,
		controller.ModalCaseStudy, controller.ModalCertificate:
		return name, true
	default:
		return "", false
	}
}

// leadSource maps the form a submission came from; only the footer form
// is distinguished, everything else is the overlay.
func leadSource(s string) string {
	if s == domain.SourceFooter {
		return domain.SourceFooter
	}

	return domain.SourceModal
}

func errorMessage(err error) ServerMessage {
	_, resp := dto.MapDomainError(err)

	return ServerMessage{Type: MsgError, Error: &resp.Error}
}
