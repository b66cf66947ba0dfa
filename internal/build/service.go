package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/hooks"
	"git.home.luguber.info/inful/pagebuilder/internal/page"
	"git.home.luguber.info/inful/pagebuilder/internal/render"
)

// GlobalAssetsDir is the output directory shared by every page.
const GlobalAssetsDir = page.GlobalAssetsFolder

// Stage names used in logs and metrics.
const (
	StageTemplateSync = "template_sync"
	StageGlobalAssets = "global_assets"
	StagePage         = "page"
)

// Request is the input to one build.
type Request struct {
	Pages page.List
	Hooks hooks.Set
	// BuildID overrides the generated ID, e.g. to match a response header.
	BuildID string
}

// Status represents the outcome of a build.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Result describes a finished build. It is returned even when Run fails.
type Result struct {
	BuildID    string
	Status     Status
	OutputPath string
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration

	// Pages is the number of page configs fully processed.
	Pages         int
	FilesRendered int
	FilesSkipped  int
	FilesFailed   int
}

func (r *Result) addStats(s render.Stats) {
	r.FilesRendered += s.Rendered
	r.FilesSkipped += s.Skipped
	r.FilesFailed += s.Failed
}

// Syncer prepares the templates root before a build, e.g. from git.
type Syncer interface {
	Sync(ctx context.Context) error
}

// AssetCopier copies an asset tree into the output root.
type AssetCopier interface {
	CopyAssets(ctx context.Context, sourceDir, destName string) error
}

// FileResolver lists the template files of a page.
type FileResolver interface {
	List(ctx context.Context, cfg page.Config, ext string, h hooks.Set) ([]string, error)
}

// PageRenderer renders the resolved files of a page.
type PageRenderer interface {
	RenderAll(ctx context.Context, cfg page.Config, files []string, h hooks.Set) (render.Stats, error)
}
