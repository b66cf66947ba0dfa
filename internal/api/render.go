package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"git.home.luguber.info/inful/pagebuilder/internal/build"
	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
)

// maxBodyBytes caps POST /render payloads.
const maxBodyBytes = 4 << 20

// RenderRequest is the POST /render body. Data holds one page config or an array of them.
type RenderRequest struct {
	Data page.List `json:"data"`
}

func (s *Server) handleRenderConfigured(w http.ResponseWriter, r *http.Request) {
	if s.opts.Pages == nil {
		s.errs.WriteErrorResponse(w, r, errors.ConfigError("no pages configured").Build())
		return
	}
	pages, err := s.opts.Pages()
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	s.render(w, r, pages)
}

func (s *Server) handleRenderPosted(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.errs.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryValidation, "malformed request body").Build())
		return
	}
	if len(req.Data) == 0 {
		s.errs.WriteErrorResponse(w, r, errors.ValidationError("data is required").Build())
		return
	}
	s.render(w, r, req.Data)
}

// render runs the build detached from the request: a client that goes away
// must not leave the output tree half emptied.
func (s *Server) render(w http.ResponseWriter, r *http.Request, pages page.List) {
	_, err := s.builder.Run(context.WithoutCancel(r.Context()), build.Request{
		Pages:   pages,
		Hooks:   s.opts.Hooks,
		BuildID: BuildIDFromContext(r.Context()),
	})
	if err != nil {
		s.errs.WriteErrorResponse(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, Ack{Message: "Done"})
}
