package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"postforge/internal/catalog"
	"postforge/internal/core"
	"postforge/internal/generate"
)

type generateTopicsRequest struct {
	Model             string   `json:"model"`
	ReferenceLinks    []string `json:"reference_links"`
	ExtraInstructions string   `json:"extra_instructions"`
	Amount            int      `json:"amount"`
}

type generatePostsRequest struct {
	TopicID           int64    `json:"topic_id"`
	Model             string   `json:"model"`
	ChainOfThought    bool     `json:"chain_of_thought"`
	Schema            string   `json:"schema"`
	ReferenceLinks    []string `json:"reference_links"`
	ExtraInstructions string   `json:"extra_instructions"`
	Amount            int      `json:"amount"`
}

type shareRequest struct {
	PostID int64 `json:"post_id"`
}

// handleListTopics handles GET /api/topics.
func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := s.store.ListTopics(r.Context(), userID(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if topics == nil {
		topics = []core.Topic{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

// handleGenerateTopics handles POST /api/topics. The call is synchronous; it
// returns once the pipeline has persisted the deduplicated topics.
func (s *Server) handleGenerateTopics(w http.ResponseWriter, r *http.Request) {
	var req generateTopicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Model == "" {
		req.Model = catalog.DefaultModelID
	}

	topics, err := s.generator.GenerateTopics(r.Context(), userID(r),
		req.ReferenceLinks, req.Model, req.ExtraInstructions, req.Amount)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{"topics": topics})
}

// handleDeleteTopic handles DELETE /api/topics/{id}. Posts under the topic
// are removed with it.
func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	topicID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid topic id")
		return
	}

	if err := s.store.DeleteTopic(r.Context(), topicID, userID(r)); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListPosts handles GET /api/posts, optionally filtered by ?topic_id=.
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	var topicID int64
	if raw := r.URL.Query().Get("topic_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid topic_id")
			return
		}
		topicID = parsed
	}

	posts, err := s.store.ListPosts(r.Context(), userID(r), topicID)
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	if posts == nil {
		posts = []core.Post{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

// handleGeneratePosts handles POST /api/posts.
func (s *Server) handleGeneratePosts(w http.ResponseWriter, r *http.Request) {
	var req generatePostsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.TopicID == 0 {
		s.respondError(w, http.StatusBadRequest, "topic_id is required")
		return
	}
	if req.Model == "" {
		req.Model = catalog.DefaultModelID
	}

	posts, err := s.generator.GeneratePosts(r.Context(), generate.PostRequest{
		TopicID:           req.TopicID,
		UserID:            userID(r),
		ModelID:           req.Model,
		UseChainOfThought: req.ChainOfThought,
		Schema:            req.Schema,
		ExtraInstructions: req.ExtraInstructions,
		ReferenceLinks:    req.ReferenceLinks,
		Amount:            req.Amount,
	})
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]any{"posts": posts})
}

// handleDeletePost handles DELETE /api/posts/{id}.
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := s.store.DeletePost(r.Context(), postID, userID(r)); err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleCreateShare handles POST /api/shares. Sharing is idempotent per user
// and post.
func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	var req shareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.PostID == 0 {
		s.respondError(w, http.StatusBadRequest, "post_id is required")
		return
	}

	if _, err := s.store.GetPost(r.Context(), req.PostID); err != nil {
		s.respondStoreError(w, err)
		return
	}

	shareID, err := s.store.SharePost(r.Context(), req.PostID, userID(r))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]string{"share_id": shareID})
}

// handleGetShare handles GET /api/shares/{id}. The endpoint is public.
func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	post, err := s.store.GetSharedPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondStoreError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, post)
}

// respondPipelineError maps generation-pipeline errors to status codes.
// Missing credentials and unknown models are the caller's problem; upstream
// provider failures and unparseable model output surface as bad gateways.
func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	var missingCred *core.MissingCredentialError
	var apiErr *core.ProviderAPIError
	var parseErr *core.ParseError

	switch {
	case errors.Is(err, core.ErrModelNotFound),
		errors.Is(err, core.ErrProfileNotFound),
		errors.Is(err, core.ErrTopicNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &missingCred):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &apiErr), errors.As(err, &parseErr):
		s.log.Warn("pipeline upstream failure", "error", err)
		s.respondError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error("pipeline error", "error", err)
		s.respondError(w, http.StatusInternalServerError, "internal error")
	}
}
