package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/feudhost/feudhost/internal/feud"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "FeudHost API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for hosting survey-style party game nights.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/auth/register
	postRegister, _ := r.NewOperationContext(http.MethodPost, "/api/auth/register")
	postRegister.SetSummary("Register")
	postRegister.SetDescription("Create an account. Sets the feud_session cookie.")
	postRegister.AddReqStructure(RegisterRequest{})
	postRegister.AddRespStructure(User{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRegister.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postRegister)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Login")
	postLogin.SetDescription("Authenticate with email and password. Sets the feud_session cookie.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(User{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(postLogin)

	// POST /api/auth/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	postLogout.SetSummary("Logout")
	postLogout.SetDescription("Clears the session and cookie.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postLogout)

	// GET /api/auth/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/auth/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the currently authenticated user.")
	getMe.AddRespStructure(User{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMe)

	// GET /api/boards
	listBoards, _ := r.NewOperationContext(http.MethodGet, "/api/boards")
	listBoards.SetSummary("List boards")
	listBoards.SetDescription("Returns all boards owned by the current user.")
	listBoards.AddRespStructure(BoardListResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	listBoards.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(listBoards)

	// POST /api/boards
	createBoard, _ := r.NewOperationContext(http.MethodPost, "/api/boards")
	createBoard.SetSummary("Create board")
	createBoard.SetDescription("Creates a new question board.")
	createBoard.AddReqStructure(BoardRequest{})
	createBoard.AddRespStructure(feud.Game{}, openapi.WithHTTPStatus(http.StatusCreated))
	createBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createBoard)

	// POST /api/boards/generate
	generateBoard, _ := r.NewOperationContext(http.MethodPost, "/api/boards/generate")
	generateBoard.SetSummary("Generate board")
	generateBoard.SetDescription("Generates a board on the given topic. The board is returned for editing, not saved.")
	generateBoard.AddReqStructure(GenerateRequest{})
	generateBoard.AddRespStructure(feud.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	generateBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadGateway))
	generateBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(generateBoard)

	// GET /api/boards/{boardID}
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/boards/{boardID}")
	getBoard.SetSummary("Get board")
	getBoard.AddRespStructure(feud.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getBoard)

	// PUT /api/boards/{boardID}
	updateBoard, _ := r.NewOperationContext(http.MethodPut, "/api/boards/{boardID}")
	updateBoard.SetSummary("Update board")
	updateBoard.AddReqStructure(BoardRequest{})
	updateBoard.AddRespStructure(feud.Game{}, openapi.WithHTTPStatus(http.StatusOK))
	updateBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(updateBoard)

	// DELETE /api/boards/{boardID}
	deleteBoard, _ := r.NewOperationContext(http.MethodDelete, "/api/boards/{boardID}")
	deleteBoard.SetSummary("Delete board")
	deleteBoard.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteBoard)

	// POST /api/rooms
	createRoom, _ := r.NewOperationContext(http.MethodPost, "/api/rooms")
	createRoom.SetSummary("Open room")
	createRoom.SetDescription("Opens a live room hosting one of the user's boards. Returns the room code players join with.")
	createRoom.AddReqStructure(CreateRoomRequest{})
	createRoom.AddRespStructure(RoomResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(createRoom)

	// GET /api/rooms/{code}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}")
	getRoom.SetSummary("Host room state")
	getRoom.SetDescription("Returns the host's unredacted view of the room. Owner only.")
	getRoom.AddRespStructure(HostStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRoom)

	// Host controls.
	for _, op := range []struct {
		path, summary string
		req           any
	}{
		{"/api/rooms/{code}/start", "Start the game", nil},
		{"/api/rooms/{code}/reveal", "Reveal an answer", RevealRequest{}},
		{"/api/rooms/{code}/strike", "Record a strike", nil},
		{"/api/rooms/{code}/award", "Award the pot to a team", AwardRequest{}},
		{"/api/rooms/{code}/next", "Advance to the next question", nil},
	} {
		oc, _ := r.NewOperationContext(http.MethodPost, op.path)
		oc.SetSummary(op.summary)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		oc.AddRespStructure(HostStateResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
		_ = r.AddOperation(oc)
	}

	// DELETE /api/rooms/{code}
	closeRoom, _ := r.NewOperationContext(http.MethodDelete, "/api/rooms/{code}")
	closeRoom.SetSummary("Close room")
	closeRoom.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	closeRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(closeRoom)

	// GET /api/rooms/{code}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/ws")
	getWS.SetSummary("Join over WebSocket")
	getWS.SetDescription("Upgrades to a WebSocket carrying the room's message stream in both directions.")
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/rooms/{code}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/events")
	getEvents.SetSummary("Spectate over SSE")
	getEvents.SetDescription("Server-Sent Events stream of the room's messages. Read-only.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/rooms/{code}/qr
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{code}/qr")
	getQR.SetSummary("Join QR code")
	getQR.SetDescription("PNG QR code encoding the room's join URL.")
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getQR)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(spec)
	}
}
