package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/portfolio/internal/common"
)

// apiPrefix mounts every route a second time for clients of the older
// /api/... paths.
const apiPrefix = "/api"

type route struct {
	pattern string
	handler http.Handler
}

func (s *Server) routes() []route {
	gated := s.requireRole(common.RoleAdmin)
	write := func(h http.HandlerFunc) http.Handler {
		if s.deps.ProtectAllWrites {
			return gated(h)
		}
		return h
	}

	rs := []route{
		{"GET /health", http.HandlerFunc(s.health)},

		{"GET /techs", http.HandlerFunc(s.listTechs)},
		{"GET /projects", http.HandlerFunc(s.listProjects)},
		{"GET /tech/{id}", http.HandlerFunc(s.getTech)},
		{"POST /newtech", gated(http.HandlerFunc(s.createTech))},
		{"PUT /tech/{id}", write(s.updateTech)},
		{"DELETE /tech/{id}", write(s.deleteTech)},

		{"GET /pipelinestages", http.HandlerFunc(s.listStages)},
		{"POST /pipelinestages", write(s.createStage)},
		{"POST /pipelinestages/bulk", write(s.createStages)},
		{"PUT /pipelinestages/{id}", write(s.updateStage)},
		{"DELETE /pipelinestages/{id}", write(s.deleteStage)},

		{"POST /auth/login", http.HandlerFunc(s.login)},
	}

	if s.deps.Images != nil {
		rs = append(rs,
			route{"POST /tech/{id}/image", gated(http.HandlerFunc(s.uploadImage))},
			route{"GET /tech/{id}/image", http.HandlerFunc(s.getImage)},
		)
	}
	return rs
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	for _, rt := range s.routes() {
		mux.Handle(rt.pattern, rt.handler)
		mux.Handle(withPrefix(rt.pattern, apiPrefix), rt.handler)
	}
}

// withPrefix inserts prefix between the method and path of a pattern.
func withPrefix(pattern, prefix string) string {
	method, path, ok := strings.Cut(pattern, " ")
	if !ok {
		return prefix + pattern
	}
	return method + " " + prefix + path
}
