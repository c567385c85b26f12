package http

import (
	"context"
	"net/http"

	"github.com/coursedesk/course-api/internal/common/constants"
	commoncrypto "github.com/coursedesk/course-api/internal/common/crypto"
)

const traceIDHeader = "X-Trace-ID"

var traceIDGenerator commoncrypto.IDGenerator = commoncrypto.NewUUIDGenerator()

func TraceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			if generated, err := traceIDGenerator.NewID(); err == nil {
				traceID = generated
			}
		}

		if traceID != "" {
			w.Header().Set(traceIDHeader, traceID)
		}

		ctx := context.WithValue(r.Context(), constants.TraceIDKey, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
