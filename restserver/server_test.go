// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diffeo/go-resource/memory"
	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/resource/resourcetest"
	"github.com/diffeo/go-resource/restdata"
	"github.com/diffeo/go-resource/restserver"
	"github.com/diffeo/go-resource/store"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// Suite runs requests against a server backed by a fresh memory store.
type Suite struct {
	suite.Suite
	Store   store.Store
	Handler http.Handler
}

func (s *Suite) SetupTest() {
	Thing := &resource.Type{
		Name:   "thing",
		IDKind: resource.String,
		Fields: []resource.Field{{Name: "label", Kind: resource.String}},
	}
	registry, err := resource.NewRegistry(resourcetest.Contact, resourcetest.Group.Extend(func(t *resource.Type) {
		t.ConnectionType = resource.JAXRS
	}), Thing)
	s.Require().NoError(err)
	s.Store = memory.New()
	s.Handler = restserver.NewRouter(s.Store, registry)
}

// Do sends one request with an optional JSON body.
func (s *Suite) Do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", restdata.JSONMediaType)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

// Decode decodes a response body as a generic object.
func (s *Suite) Decode(rec *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	err := restdata.DecodeBytes(rec.Header().Get("Content-Type"), rec.Body.Bytes(), &out)
	s.NoError(err)
	return out
}

// ErrorCode decodes an error response and returns its code.
func (s *Suite) ErrorCode(rec *httptest.ResponseRecorder) string {
	var errResp restdata.ErrorResponse
	err := restdata.DecodeBytes(rec.Header().Get("Content-Type"), rec.Body.Bytes(), &errResp)
	s.NoError(err)
	return errResp.Error
}

func (s *Suite) TestRoot() {
	rec := s.Do("GET", "/", "")
	s.Equal(http.StatusOK, rec.Code)
	var root restdata.RootData
	err := restdata.DecodeBytes(rec.Header().Get("Content-Type"), rec.Body.Bytes(), &root)
	if s.NoError(err) {
		s.Equal([]restdata.CollectionLink{
			{Name: "contact", URL: "/contacts", ResourceURL: "/contacts/{id}"},
			{Name: "group", URL: "/groups", ResourceURL: "/groups/{id}"},
			{Name: "thing", URL: "/things", ResourceURL: "/things/{id}"},
		}, root.Collections)
	}
}

func (s *Suite) TestCreate() {
	rec := s.Do("POST", "/contacts", `{"contact":{"first_name":"Joe","last_name":"Blow"}}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("/contacts/1", rec.Header().Get("Location"))
	s.Equal(map[string]interface{}{
		"contact": map[string]interface{}{
			"id":         int64(1),
			"first_name": "Joe",
			"last_name":  "Blow",
		},
	}, s.Decode(rec))

	rec = s.Do("POST", "/contacts", `{"first_name":"Some"}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("/contacts/2", rec.Header().Get("Location"))

	doc, err := s.Store.Get("contact", "2")
	if s.NoError(err) {
		s.Equal(restdata.Document{"id": int64(2), "first_name": "Some"}, doc)
	}
}

func (s *Suite) TestCreateWithID() {
	rec := s.Do("POST", "/contacts", `{"id":17,"first_name":"Joe"}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("/contacts/17", rec.Header().Get("Location"))
}

func (s *Suite) TestCreateUUID() {
	rec := s.Do("POST", "/things", `{"label":"x"}`)
	s.Equal(http.StatusCreated, rec.Code)
	body := s.Decode(rec)
	thing, _ := body["thing"].(map[string]interface{})
	id, _ := thing["id"].(string)
	s.Len(id, 36)
	s.Equal("/things/"+id, rec.Header().Get("Location"))
}

func (s *Suite) TestGetMissing() {
	rec := s.Do("GET", "/contacts/9", "")
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("ErrNotFound", s.ErrorCode(rec))
}

func (s *Suite) TestUnknownCollection() {
	rec := s.Do("GET", "/widgets", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *Suite) TestUpdate() {
	s.Do("POST", "/contacts", `{"first_name":"Joe","last_name":"Blow"}`)

	rec := s.Do("PUT", "/contacts/1", `{"contact":{"id":5,"last_name":"Smith"}}`)
	s.Equal(http.StatusNoContent, rec.Code)
	s.Empty(rec.Body.Bytes())

	rec = s.Do("GET", "/contacts/1", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(map[string]interface{}{
		"contact": map[string]interface{}{
			"id":         int64(1),
			"first_name": "Joe",
			"last_name":  "Smith",
		},
	}, s.Decode(rec))

	rec = s.Do("PUT", "/contacts/2", `{"last_name":"Smith"}`)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *Suite) TestDelete() {
	s.Do("POST", "/contacts", `{"first_name":"Joe"}`)

	rec := s.Do("DELETE", "/contacts/1", "")
	s.Equal(http.StatusNoContent, rec.Code)

	rec = s.Do("GET", "/contacts/1", "")
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.Do("DELETE", "/contacts/1", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *Suite) TestList() {
	s.Do("POST", "/contacts", `{"first_name":"Joe"}`)
	s.Do("POST", "/contacts", `{"first_name":"Some"}`)

	rec := s.Do("GET", "/contacts", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(map[string]interface{}{
		"contacts": []interface{}{
			map[string]interface{}{
				"contact": map[string]interface{}{"id": int64(1), "first_name": "Joe"},
			},
			map[string]interface{}{
				"contact": map[string]interface{}{"id": int64(2), "first_name": "Some"},
			},
		},
	}, s.Decode(rec))

	rec = s.Do("GET", "/contacts?jaxrs=true", "")
	s.Equal(map[string]interface{}{
		"contacts": []interface{}{
			map[string]interface{}{"id": int64(1), "first_name": "Joe"},
			map[string]interface{}{"id": int64(2), "first_name": "Some"},
		},
	}, s.Decode(rec))
}

func (s *Suite) TestMixedChildren() {
	rec := s.Do("POST", "/groups", `{"group_name":"Test","contacts":[{"contact":{"first_name":"Joe"}},{"first_name":"Some"}]}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal(map[string]interface{}{
		"id":         int64(1),
		"group_name": "Test",
		"contacts": []interface{}{
			map[string]interface{}{"first_name": "Joe"},
			map[string]interface{}{"first_name": "Some"},
		},
	}, s.Decode(rec))
}

func (s *Suite) TestCBOR() {
	s.Do("POST", "/contacts", `{"first_name":"Joe"}`)

	rec := s.Do("GET", "/contacts/1", "", "Accept", restdata.CBORMediaType)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(restdata.CBORMediaType, rec.Header().Get("Content-Type"))
	s.Equal(map[string]interface{}{
		"contact": map[string]interface{}{"id": int64(1), "first_name": "Joe"},
	}, s.Decode(rec))

	body, err := restdata.EncodeBytes(restdata.CBORMediaType, map[string]interface{}{"first_name": "Some"})
	s.Require().NoError(err)
	req := httptest.NewRequest("POST", "/contacts", bytes.NewReader(body))
	req.Header.Set("Content-Type", restdata.CBORMediaType)
	rec = httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("/contacts/2", rec.Header().Get("Location"))
}

func (s *Suite) TestBadRequests() {
	rec := s.Do("POST", "/contacts", `{"first_name":`)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("ErrBadRequest", s.ErrorCode(rec))

	rec = s.Do("POST", "/contacts", `hello`, "Content-Type", "text/plain")
	s.Equal(http.StatusUnsupportedMediaType, rec.Code)
	s.Equal("ErrUnsupportedMediaType", s.ErrorCode(rec))

	rec = s.Do("DELETE", "/contacts", "")
	s.Equal(http.StatusMethodNotAllowed, rec.Code)

	rec = s.Do("GET", "/contacts/1", "", "Accept", "text/html")
	s.Equal(http.StatusNotAcceptable, rec.Code)
}

func TestServer(t *testing.T) {
	suite.Run(t, &Suite{})
}

func TestPopulateRouterSubpath(t *testing.T) {
	backend := memory.New()
	assert.NoError(t, backend.Put("contact", "1", restdata.Document{"id": int64(1)}))
	r := mux.NewRouter()
	sub := r.PathPrefix("/api").Subrouter()
	restserver.PopulateRouter(sub, backend, resourcetest.Registry())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/contacts/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/", nil))
	var root restdata.RootData
	err := restdata.DecodeBytes(rec.Header().Get("Content-Type"), rec.Body.Bytes(), &root)
	if assert.NoError(t, err) && assert.Len(t, root.Collections, 2) {
		assert.Equal(t, "/api/contacts", root.Collections[0].URL)
		assert.Equal(t, "/api/contacts/{id}", root.Collections[0].ResourceURL)
	}
}
