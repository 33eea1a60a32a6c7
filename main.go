package main

import (
	"context"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/mager/cochlea/config"
	"github.com/mager/cochlea/handler/health"
	inferHandler "github.com/mager/cochlea/handler/infer"
	"github.com/mager/cochlea/logger"
	"github.com/mager/cochlea/predictor"
)

// Route is an http.Handler that knows the mux pattern
// under which it will be registered.
type Route interface {
	http.Handler

	// Pattern reports the path at which this is registered.
	Pattern() string
	// Method reports the HTTP method this route accepts.
	Method() string
}

//	@title			Cochlea
//	@version		1.0
//	@description	Audio feature inference API: upload a clip, get Spotify-style attributes

// @host		localhost:8080
// @BasePath	/
func main() {
	fx.New(
		fx.Provide(
			fx.Annotate(NewHTTPServer, fx.ParamTags("", "", "", `group:"routes"`)),
			config.Options,
			logger.Options,
			predictor.Options,
			func(p *predictor.Predictor) health.Warmer { return p },
			func(p *predictor.Predictor) inferHandler.Inferencer { return p },

			AsRoute(health.NewHealthHandler),
			AsRoute(health.NewReadyHandler),
			AsRoute(inferHandler.NewInferHandler),
		),
		fx.Invoke(func(*http.Server) {}),
		fx.Invoke(func(lc fx.Lifecycle, p *predictor.Predictor) {
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					return p.Close()
				},
			})
		}),
	).Run()
}

func NewHTTPServer(
	lc fx.Lifecycle,
	log *zap.SugaredLogger,
	cfg config.Config,
	routes []Route,
) *http.Server {
	r := mux.NewRouter()
	for _, route := range routes {
		r.Handle(route.Pattern(), route).Methods(route.Method())
	}

	handler := corsMiddleware(cfg.AllowedOrigins, jsonMiddleware(r))

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Infow("starting HTTP server", "addr", srv.Addr)
			go srv.Serve(ln)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}

// AsRoute annotates the given constructor to state that
// it provides a route to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware mirrors the frontend origins the deployed UI calls from.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
