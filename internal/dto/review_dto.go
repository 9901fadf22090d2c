package dto

import "time"

// ReviewPatchRequest 审核操作，status 与 action 二选一
// status: published/approved/rejected/draft; action: approve/reject/request_changes
type ReviewPatchRequest struct {
	Status   string `json:"status"`
	Action   string `json:"action"`
	Feedback string `json:"feedback" binding:"max=2000"`
}

// ReviewApproveRequest 通过时可附带意见
type ReviewApproveRequest struct {
	Feedback string `json:"feedback" binding:"max=2000"`
}

// ReviewItem 审核列表条目
type ReviewItem struct {
	Type        string     `json:"type"` // article / revision
	ID          uint       `json:"id"`
	ArticleID   uint       `json:"article_id"`
	Title       string     `json:"title"`
	AuthorID    uint       `json:"author_id"`
	Status      string     `json:"status"`
	Summary     string     `json:"summary,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// DiffSegment 修正案差异片段
type DiffSegment struct {
	Op   string `json:"op"` // equal / insert / delete
	Text string `json:"text"`
}
