package middleware

import (
	"fmt"
	"net/http"

	"github.com/satyam539813/farmappsample/api/responses"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
)

// Recoverer turns a handler panic into a 500 envelope. If the handler had
// already started the response, the panic is only logged.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newResponseRecorder(w)
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{"panic": fmt.Sprint(recovered), "route": routePattern(r)})
				}
				err := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("panic: %v", recovered), "handler panicked").
					WithNotice("Something went wrong", "Please try again.")
				if rec.wroteHeader() {
					if logg != nil {
						logg.Error(ctx, "panic after response started", err)
					}
					return
				}
				responses.WriteError(ctx, logg, rec, err)
			}()
			next.ServeHTTP(rec, r)
		})
	}
}
