package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"

	"github.com/karupanerura/arith-expression/internal/expression"
	"github.com/karupanerura/arith-expression/internal/types"
)

const basePath = "/v1/evaluations"

type evaluation struct {
	Name       string    `json:"name"`
	CreateTime time.Time `json:"createTime"`
	State      string    `json:"state"`
	Expression string    `json:"expression"`
	Tree       string    `json:"tree,omitempty"`
	Value      *int64    `json:"value,omitempty"`
	Error      any       `json:"error,omitempty"`
}

type evaluateRequest struct {
	Expression  string     `mapstructure:"expression"`
	Expressions []string   `mapstructure:"expressions"`
	Tokens      []tokenDef `mapstructure:"tokens"`
}

// tokenDef is a token produced by a client-side tokenizer, e.g. {"kind": "Literal", "value": 5}.
type tokenDef struct {
	Kind  string `mapstructure:"kind"`
	Value *int64 `mapstructure:"value"`
}

func (d tokenDef) token() (expression.Token, error) {
	kind, ok := expression.ParseTokenKind(d.Kind)
	if !ok {
		return expression.Token{}, &types.Error{
			Tag: types.TypeErrorTag,
			Err: fmt.Errorf("unknown token kind: %q", d.Kind),
		}
	}

	if kind == expression.LiteralKind {
		if d.Value == nil {
			return expression.Token{}, &types.Error{
				Tag: types.ValueErrorTag,
				Err: errors.New("Literal token needs a value"),
			}
		}
		return expression.NewLiteralToken(*d.Value), nil
	}
	if d.Value != nil {
		return expression.Token{}, &types.Error{
			Tag: types.ValueErrorTag,
			Err: fmt.Errorf("%s token cannot have a value", kind),
		}
	}
	return expression.NewToken(kind), nil
}

type httpHandler struct {
	idBase      uint64
	evaluations sync.Map
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == basePath {
		switch r.Method {
		case http.MethodGet:
			h.listEvaluations(w, r)
			return

		case http.MethodPost:
			h.createEvaluations(w, r)
			return

		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
	}

	if !strings.HasPrefix(r.URL.Path, basePath+"/") {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getEvaluation(w, r, strings.TrimPrefix(r.URL.Path, basePath+"/"))
		return

	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}
}

func (h *httpHandler) createEvaluations(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var body map[string]any
	if err := decoder.Decode(&body); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	req, err := decodeEvaluateRequest(body)
	if err != nil {
		log.Printf("invalid request: %v", err)
		resJSON(w, http.StatusBadRequest, map[string]any{"error": exceptionOf(err)})
		return
	}

	var tokens []expression.Token
	for i, def := range req.Tokens {
		tok, err := def.token()
		if err != nil {
			err = fmt.Errorf("tokens[%d]: %w", i, err)
			log.Printf("invalid request: %v", err)
			resJSON(w, http.StatusBadRequest, map[string]any{"error": exceptionOf(err)})
			return
		}
		tokens = append(tokens, tok)
	}

	sources := req.Expressions
	if req.Expression != "" {
		sources = append([]string{req.Expression}, sources...)
	}

	results := lo.Map(sources, func(source string, _ int) *evaluation {
		return h.store(h.evaluateSource(source))
	})
	if len(req.Tokens) != 0 {
		results = append(results, h.store(h.evaluateTokens(expression.NewTokenStream(tokens...))))
	}

	status := http.StatusOK
	failed := lo.Filter(results, func(ev *evaluation, _ int) bool {
		return ev.State == "FAILED"
	})
	if len(failed) != 0 {
		status = http.StatusUnprocessableEntity
	}
	resJSON(w, status, map[string][]*evaluation{"evaluations": results})
}

func decodeEvaluateRequest(body map[string]any) (*evaluateRequest, error) {
	var req evaluateRequest
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: rejectNumberAsString,
		Result:     &req,
	})
	if err != nil {
		return nil, fmt.Errorf("mapstructure.NewDecoder: %w", err)
	}
	if err := decoder.Decode(body); err != nil {
		return nil, &types.Error{
			Tag: types.TypeErrorTag,
			Err: err,
		}
	}
	if req.Expression == "" && len(req.Expressions) == 0 && len(req.Tokens) == 0 {
		return nil, &types.Error{
			Tag: types.ValueErrorTag,
			Err: errors.New("expression, expressions or tokens is required"),
		}
	}
	return &req, nil
}

// rejectNumberAsString keeps json.Number (a string kind) from being decoded into string fields.
func rejectNumberAsString(from, to reflect.Type, data any) (any, error) {
	if from == reflect.TypeOf(json.Number("")) && to.Kind() == reflect.String {
		return nil, fmt.Errorf("expected string but got number %v", data)
	}
	return data, nil
}

func (h *httpHandler) newEvaluation(source string) *evaluation {
	id := fmt.Sprintf("%012x", atomic.AddUint64(&h.idBase, 1))
	return &evaluation{
		Name:       basePath + "/" + id,
		CreateTime: time.Now().UTC(),
		Expression: source,
	}
}

func (h *httpHandler) store(ev *evaluation) *evaluation {
	h.evaluations.Store(ev.Name[len(basePath)+1:], ev)
	return ev
}

func (h *httpHandler) evaluateSource(source string) *evaluation {
	ev := h.newEvaluation(source)

	expr, err := expression.ParseExpr(source)
	if err != nil {
		ev.fail(err)
		return ev
	}

	ev.succeed(expr.Expression)
	return ev
}

func (h *httpHandler) evaluateTokens(tokens expression.TokenStream) *evaluation {
	sources := lo.Map(tokens.Tokens(), func(tok expression.Token, _ int) string {
		return tok.String()
	})
	ev := h.newEvaluation(strings.Join(sources, " "))

	expr, err := expression.Parse(tokens)
	if err != nil {
		ev.fail(err)
		return ev
	}

	ev.succeed(expr)
	return ev
}

func (ev *evaluation) succeed(expr expression.Expression) {
	value := expression.Evaluate(expr)
	ev.State = "SUCCEEDED"
	ev.Tree = expr.String()
	ev.Value = &value
}

func (ev *evaluation) fail(err error) {
	ev.State = "FAILED"
	ev.Error = exceptionOf(err)
}

func exceptionOf(err error) any {
	var exception types.Exception
	if errors.As(err, &exception) {
		return exception.Exception()
	}
	return err.Error()
}

func (h *httpHandler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	results := []*evaluation{}
	h.evaluations.Range(func(key, value any) bool {
		results = append(results, value.(*evaluation))
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})

	resJSON(w, http.StatusOK, map[string][]*evaluation{"evaluations": results})
}

func (h *httpHandler) getEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.evaluations.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	resJSON(w, http.StatusOK, ret.(*evaluation))
}

func NewHTTPHandler() http.Handler {
	return &httpHandler{}
}

func resJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("json.MarshalIndent: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		log.Printf("w.Write: %v", err)
		return
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		log.Printf("io.WriteString: %v", err)
	}
}
