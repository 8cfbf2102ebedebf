package web

import (
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/fractal_browser/animator"
	"github.com/mogaika/fractal_browser/status"
	"github.com/mogaika/fractal_browser/utils"
)

type Server struct {
	Animator *animator.Animator
	Hub      *status.Hub

	names    *utils.RandomNameGenerator
	upgrader websocket.Upgrader
}

func NewServer(a *animator.Animator, hub *status.Hub) *Server {
	s := &Server{
		Animator: a,
		Hub:      hub,
		names:    utils.NewRandomNameGenerator(time.Now().UnixNano()),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1 << 16,
		},
	}
	a.Subscribe(func(fr *animator.Frame) {
		hub.Frame(NewJsonFrame(fr))
	})
	return s
}

func (s *Server) Router(webPath string) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/fractal", s.HandlerFractal).Methods("GET")
	r.HandleFunc("/json/frame", s.HandlerFrame).Methods("GET")
	r.HandleFunc("/json/part/{level}/{index}", s.HandlerPart).Methods("GET")
	r.HandleFunc("/action/rebuild/{depth}", s.HandlerRebuild).Methods("POST")
	r.HandleFunc("/action/{action}", s.HandlerAction).Methods("POST")
	r.HandleFunc("/dump/gltf", s.HandlerDumpGltf).Methods("GET")
	r.HandleFunc("/dump/fbx", s.HandlerDumpFbx).Methods("GET")
	r.HandleFunc("/dump/state", s.HandlerDumpState).Methods("GET")
	r.HandleFunc("/ws", s.HandlerWs)

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))
	return r
}

func StartServer(addr string, a *animator.Animator, hub *status.Hub, webPath string) error {
	s := NewServer(a, hub)

	h := handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(s.Router(webPath)))

	log.Printf("[web] Starting server %v", addr)
	hub.Info("serving %s parts", utils.FormatCount(len(a.Frame().Transforms)))

	return http.ListenAndServe(addr, h)
}
