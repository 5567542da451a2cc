package application

import (
	"github.com/ravengallery/gallery-api/internal/domains/images/application/types"
	"github.com/ravengallery/gallery-api/internal/shared/dispatch"
)

// NewCommandInvoker registers every images command handler. It fails when a command kind is left
// without a handler.
func NewCommandInvoker(c *Commands) (*dispatch.Invoker, error) {
	return dispatch.NewInvoker([]dispatch.CommandRoute{
		dispatch.OnCommand(c.UploadImage),
		dispatch.OnCommand(c.UpdateImageTags),
		dispatch.OnCommand(c.UpdateImageTitle),
	}, types.CommandKinds()...)
}

// NewViewRepository registers every images view producer. It fails when an input kind is left
// without a producer.
func NewViewRepository(v *Views) (*dispatch.Repository, error) {
	return dispatch.NewRepository([]dispatch.ViewRoute{
		dispatch.OnView(v.TagCollection),
		dispatch.OnView(v.Image),
		dispatch.OnView(v.Browse),
		dispatch.OnView(v.Related),
	}, types.InputKinds()...)
}
