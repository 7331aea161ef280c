package record

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sgfgrove/internal/domain/record"
	"sgfgrove/internal/domain/sgf"
	sgferrors "sgfgrove/internal/errors"
	"sgfgrove/internal/httpresponse"
	recorduc "sgfgrove/internal/usecase/record"
	sgfuc "sgfgrove/internal/usecase/sgf"
	"sgfgrove/internal/utils"
)

const maxBodyBytes = 8 << 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type RecordHandler struct {
	log      *zap.SugaredLogger
	recordUC *recorduc.RecordUseCase
	sgfUC    *sgfuc.SgfUseCase
	hub      *hub
}

func NewRecordHandler(log *zap.SugaredLogger, recordUC *recorduc.RecordUseCase, sgfUC *sgfuc.SgfUseCase) *RecordHandler {
	return &RecordHandler{
		log:      log,
		recordUC: recordUC,
		sgfUC:    sgfUC,
		hub:      newHub(log),
	}
}

// Register mounts the SGF and record routes on r.
func (h *RecordHandler) Register(r chi.Router) {
	r.Post("/sgf/parse", h.HandleParse)
	r.Post("/sgf/stringify", h.HandleStringify)
	r.Post("/sgf/normalize", h.HandleNormalize)

	r.Route("/records", func(r chi.Router) {
		r.Post("/", h.HandleImport)
		r.Get("/", h.HandleList)
		r.Get("/{key}", h.HandleGet)
		r.Delete("/{key}", h.HandleDelete)
		r.Get("/{key}/info", h.HandleInfo)
		r.Post("/{key}/moves", h.HandleAppendMove)
		r.Get("/{key}/live", h.HandleLive)
	})
}

func (h *RecordHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	var req record.TextRequest
	if !h.decode(w, r, &req) {
		return
	}
	c, err := h.sgfUC.Convert(req.SGF)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, record.CollectionResponse{Collection: c})
}

// HandleStringify takes the collection JSON itself as the request body.
func (h *RecordHandler) HandleStringify(w http.ResponseWriter, r *http.Request) {
	c, err := sgf.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, err)
		return
	}
	text, err := h.sgfUC.Render(c)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, record.TextResponse{SGF: text})
}

func (h *RecordHandler) HandleNormalize(w http.ResponseWriter, r *http.Request) {
	var req record.TextRequest
	if !h.decode(w, r, &req) {
		return
	}
	text, err := h.sgfUC.Normalize(req.SGF)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, record.TextResponse{SGF: text})
}

func (h *RecordHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req record.ImportRequest
	if !h.decode(w, r, &req) {
		return
	}
	key, err := h.recordUC.Import(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.log.Infof("record %s imported", key)
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, record.ImportResponse{Key: key})
}

func (h *RecordHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "page: "+err.Error())
		return
	}
	chapter, err := queryInt(r, "chapter", 0)
	if err != nil {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, "chapter: "+err.Error())
		return
	}
	resp, err := h.recordUC.List(r.Context(), chapter, page)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (h *RecordHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := h.recordUC.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

func (h *RecordHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.recordUC.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, nil)
}

func (h *RecordHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.recordUC.Info(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, info)
}

func (h *RecordHandler) HandleAppendMove(w http.ResponseWriter, r *http.Request) {
	var move record.Move
	if !h.decode(w, r, &move) {
		return
	}
	key := chi.URLParam(r, "key")
	resp, err := h.recordUC.AppendMove(r.Context(), key, move)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.hub.broadcast(key, resp)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

// HandleLive streams a record over a websocket. The client receives the
// current SGF, then every stored move; moves it sends are appended and
// broadcast to all subscribers.
func (h *RecordHandler) HandleLive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := chi.URLParam(r, "key")

	rec, err := h.recordUC.Get(ctx, key)
	if err != nil {
		h.writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorf("upgrade %s: %v", key, err)
		return
	}
	sub := h.hub.join(key, conn)
	defer h.hub.leave(key, sub)

	if err := sub.send(record.MoveResponse{Key: key, SGF: rec.SGF}); err != nil {
		h.log.Warnf("send state of %s: %v", key, err)
		return
	}

	for {
		var move record.Move
		if err := conn.ReadJSON(&move); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warnf("read from subscriber of %s: %v", key, err)
			}
			return
		}

		resp, err := h.recordUC.AppendMove(ctx, key, move)
		if err != nil {
			h.log.Infof("move %v on %s rejected: %v", move, key, err)
			if err := sub.send(httpresponse.ErrorResponse{ErrorDescription: err.Error()}); err != nil {
				return
			}
			continue
		}
		h.hub.broadcast(key, resp)
	}
}

func (h *RecordHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := utils.DecodeJSONRequest(w, r, v, maxBodyBytes); err != nil {
		h.log.Infof("json decode error: %v", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, httpresponse.MALFORMEDJSON_errorDesc+": "+err.Error())
		return false
	}
	return true
}

func (h *RecordHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error(err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteErrorWithStatus(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sgferrors.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, sgferrors.ErrInvalidMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, sgferrors.ErrSyntax),
		errors.Is(err, sgferrors.ErrType),
		errors.Is(err, sgferrors.ErrUnsupportedFormat),
		errors.Is(err, sgferrors.ErrMalformedInput),
		errors.Is(err, sgferrors.ErrEmptyTree):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
