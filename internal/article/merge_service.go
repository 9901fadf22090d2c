package article

import (
	"strings"

	"seichi/cms/internal/dto"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type MergeService struct{}

// MergeResult 3路合并结果
type MergeResult struct {
	HasConflict           bool   `json:"has_conflict"`
	MergedContent         string `json:"merged_content"`
	ConflictMarkedContent string `json:"conflict_marked_content,omitempty"`
}

func NewMergeService() *MergeService {
	return &MergeService{}
}

// ThreeWayMerge 执行3路合并
// base: 修正案创建时的正文
// theirs: 修正案提出的正文
// ours: 当前线上正文
func (s *MergeService) ThreeWayMerge(base, theirs, ours string) MergeResult {
	// 线上正文没有变化，直接采用修正案
	if ours == base {
		return MergeResult{MergedContent: theirs}
	}
	// 修正案没有改动，或两边改成了同样的内容
	if theirs == base || theirs == ours {
		return MergeResult{MergedContent: ours}
	}

	dmp := diffmatchpatch.New()

	// 1. 计算 base -> theirs 的patch
	theirPatches := dmp.PatchMake(base, dmp.DiffMain(base, theirs, false))

	// 2. 把修正案的patch应用到当前线上正文
	merged, applied := dmp.PatchApply(theirPatches, ours)

	for _, ok := range applied {
		if !ok {
			return MergeResult{
				HasConflict:           true,
				ConflictMarkedContent: s.generateConflictMarkers(theirs, ours),
			}
		}
	}

	return MergeResult{MergedContent: merged}
}

// generateConflictMarkers 生成带冲突标记的内容
func (s *MergeService) generateConflictMarkers(theirs, ours string) string {
	var result strings.Builder

	result.WriteString("<<<<<<< REVISION\n")
	result.WriteString(theirs)
	result.WriteString("\n=======\n")
	result.WriteString(ours)
	result.WriteString("\n>>>>>>> PUBLISHED\n")

	return result.String()
}

// Diff 计算 from -> to 的语义化差异，用于审核预览
func (s *MergeService) Diff(from, to string) []dto.DiffSegment {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))

	segments := make([]dto.DiffSegment, 0, len(diffs))
	for _, d := range diffs {
		op := "equal"
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = "insert"
		case diffmatchpatch.DiffDelete:
			op = "delete"
		}
		segments = append(segments, dto.DiffSegment{Op: op, Text: d.Text})
	}
	return segments
}
