package public

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/stagelink/api/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/stagelink/api/internal/public/application"
	"github.com/sngm3741/stagelink/api/internal/public/domain"
)

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), common.RequestTimeout)
}

// principal returns the caller set by the auth middleware. Routes behind the
// middleware always have one; a miss is answered with 401.
func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (publicapp.Principal, bool) {
	p, ok := common.PrincipalFromContext(r.Context())
	if !ok || p.UserID == "" {
		common.WriteMessage(h.logger, w, http.StatusUnauthorized, "authentication required")
		return publicapp.Principal{}, false
	}
	return p, true
}

func pathID(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(chi.URLParam(r, name))
	if id == "" {
		return "", domain.Invalid(name, "is required")
	}
	return id, nil
}

func paging(p common.PageParams) publicapp.Paging {
	return publicapp.Paging{Page: p.Page, Limit: p.Limit, Sort: p.Sort}
}
