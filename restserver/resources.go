// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver

import (
	"github.com/diffeo/go-resource/resource"
	"github.com/diffeo/go-resource/restdata"
	"github.com/diffeo/go-resource/store"
	uuid "github.com/satori/go.uuid"
)

// replyShape picks the wire shape of response bodies.  This is the
// type's own connection type unless the "jaxrs" query parameter says
// otherwise.
func (ctx *context) replyShape() resource.ConnectionType {
	if ctx.BoolParam("jaxrs", ctx.Type.ConnectionType == resource.JAXRS) {
		return resource.JAXRS
	}
	return resource.Default
}

// notFound remaps a missing-document error to an HTTP 404.
func notFound(err error) error {
	if _, missing := err.(store.ErrNoSuchResource); missing {
		return restdata.ErrNotFound{Err: err}
	}
	return err
}

// load fetches the resource named by ctx from the store.
func (api *restAPI) load(ctx *context) (*resource.Object, error) {
	doc, err := api.Store.Get(ctx.Type.Name, ctx.ID)
	if err != nil {
		return nil, notFound(err)
	}
	obj := ctx.Type.New(nil)
	obj.Deserialize(doc)
	return obj, nil
}

// save writes obj to the store.  Documents are always stored flat.
func (api *restAPI) save(obj *resource.Object) error {
	t := obj.Type()
	doc := restdata.Document(obj.SerializeAs(resource.JAXRS))
	return api.Store.Put(t.Name, storageKey(t, obj.ResourceID()), doc)
}

// newID generates an identity for a new resource: a random UUID for
// string identities, or the next value of the type's sequence.
func (api *restAPI) newID(t *resource.Type) (interface{}, error) {
	if t.IDKind == resource.String {
		return uuid.NewV4().String(), nil
	}
	return api.Store.NextID(t.Name)
}

func (api *restAPI) ListResources(ctx *context) (interface{}, error) {
	docs, err := api.Store.List(ctx.Type.Name)
	if err != nil {
		return nil, err
	}
	shape := ctx.replyShape()
	list := make([]interface{}, len(docs))
	for i, doc := range docs {
		obj := ctx.Type.New(nil)
		obj.Deserialize(doc)
		list[i] = obj.SerializeAs(shape)
	}
	return map[string]interface{}{ctx.Type.Plural(): list}, nil
}

func (api *restAPI) CreateResource(ctx *context, in restdata.Document) (interface{}, error) {
	obj := ctx.Type.New(nil)
	obj.Deserialize(in)
	if obj.IsNew() {
		id, err := api.newID(ctx.Type)
		if err != nil {
			return nil, err
		}
		obj.Set(ctx.Type.ResourceIDField(), id)
	}
	err := api.save(obj)
	if err != nil {
		return nil, err
	}

	resp := responseCreated{Body: obj.SerializeAs(ctx.replyShape())}
	err = buildURLs(api.Router,
		"collection", ctx.Type.Plural(),
		"id", resource.FormatID(obj.ResourceID()),
	).URL(&resp.Location, "resource").Error
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (api *restAPI) GetResource(ctx *context) (interface{}, error) {
	obj, err := api.load(ctx)
	if err != nil {
		return nil, err
	}
	return obj.SerializeAs(ctx.replyShape()), nil
}

// UpdateResource applies the fields present in the request body to
// the stored resource.  The identity cannot be changed.
func (api *restAPI) UpdateResource(ctx *context, in restdata.Document) (interface{}, error) {
	obj, err := api.load(ctx)
	if err != nil {
		return nil, err
	}
	id := obj.ResourceID()
	obj.Deserialize(in)
	obj.Set(ctx.Type.ResourceIDField(), id)
	return nil, api.save(obj)
}

func (api *restAPI) DeleteResource(ctx *context) (interface{}, error) {
	return nil, notFound(api.Store.Delete(ctx.Type.Name, ctx.ID))
}
