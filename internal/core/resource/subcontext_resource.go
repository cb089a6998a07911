package resource

import (
	"github.com/sirupsen/logrus"

	"corelith/internal/core/subcontext"
)

// SubcontextPriority is the standard priority for SubcontextResource,
// the highest of the five standard wrappers so subcontexts exist before
// anything else in the module's resource set comes up.
const SubcontextPriority = 5

// SubcontextResource registers a Subcontext into the Context for the
// lifetime of the owning module.
type SubcontextResource struct {
	ctx *subcontext.Context
	sc  subcontext.Subcontext
}

// NewSubcontextResource wraps sc for registration into ctx.
func NewSubcontextResource(ctx *subcontext.Context, sc subcontext.Subcontext) *SubcontextResource {
	return &SubcontextResource{ctx: ctx, sc: sc}
}

func (r *SubcontextResource) Priority() int { return SubcontextPriority }

func (r *SubcontextResource) OnLoad() {
	r.ctx.Register(r.sc)
}

func (r *SubcontextResource) OnInitializeAfterLoad() {
	if err := r.sc.Initialize(); err != nil {
		logrus.WithError(err).Error("subcontext failed to initialize")
	}
}

func (r *SubcontextResource) OnShutdownBeforeUnload() {
	r.sc.Shutdown()
}

func (r *SubcontextResource) OnUnload() {
	r.ctx.Deregister(r.sc)
}
