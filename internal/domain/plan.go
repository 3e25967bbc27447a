package domain

type RelinkMode string

const (
	ModeRename RelinkMode = "rename"
	ModeCopy   RelinkMode = "copy"
)

type RelinkItem struct {
	SourcePath string
	TargetPath string
	FileName   string
	Entry      Entry
	Size       int64
}

type RelinkPlan struct {
	Mode              RelinkMode
	Items             []RelinkItem
	OverrideItems     []RelinkItem
	Unchanged         int
	SkippedNoMetadata int
	TotalBytes        int64
	Warnings          []string
}

// SourcePaths lists the source of every planned item in plan order.
func (p RelinkPlan) SourcePaths() []string {
	sources := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		sources = append(sources, item.SourcePath)
	}
	return sources
}
