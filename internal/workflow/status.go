// Package workflow 文章与修正案的状态机
//
// 每种实体的状态流转都由一张 (当前状态, 动作) -> 目标状态 的表描述，
// 所有写操作在落库前先查表，落库时再以当前状态作为条件更新。
package workflow

import (
	"fmt"

	"seichi/cms/packages/response"
)

// Status 实体状态
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Action 触发状态流转的动作
type Action string

const (
	ActionEdit           Action = "edit"
	ActionSubmit         Action = "submit"
	ActionApprove        Action = "approve"
	ActionReject         Action = "reject"
	ActionRequestChanges Action = "request_changes"
	ActionWithdraw       Action = "withdraw"
)

// Machine 一张状态流转表
type Machine struct {
	name  string
	table map[Status]map[Action]Status
}

// Next 查表得到目标状态，不允许的流转返回 InvalidState
func (m Machine) Next(from Status, action Action) (Status, error) {
	if to, ok := m.table[from][action]; ok {
		return to, nil
	}
	return "", response.NewBusinessError(
		response.WithErrorCode(response.InvalidState),
		response.WithErrorMessage(fmt.Sprintf("%s状态为 %s，不能执行 %s", m.name, from, action)),
	)
}

// Can 是否允许该流转
func (m Machine) Can(from Status, action Action) bool {
	_, ok := m.table[from][action]
	return ok
}

// ReviewActions 当前状态下管理员可执行的审核动作
func (m Machine) ReviewActions(from Status) []Action {
	actions := make([]Action, 0, 3)
	for _, a := range []Action{ActionApprove, ActionReject, ActionRequestChanges} {
		if m.Can(from, a) {
			actions = append(actions, a)
		}
	}
	return actions
}

// Article 文章状态机
//
//	draft --submit--> pending --approve--> published
//	                  pending --reject--> rejected --edit--> draft
//	                  pending --request_changes--> draft
//
// 已发布的文章不再直接修改，改动通过修正案提交。
var Article = Machine{
	name: "文章",
	table: map[Status]map[Action]Status{
		StatusDraft: {
			ActionEdit:   StatusDraft,
			ActionSubmit: StatusPending,
		},
		StatusPending: {
			ActionApprove:        StatusPublished,
			ActionReject:         StatusRejected,
			ActionRequestChanges: StatusDraft,
		},
		StatusRejected: {
			ActionEdit: StatusDraft,
		},
	},
}

// Revision 修正案状态机，rejected / withdrawn / approved 为终态
var Revision = Machine{
	name: "修正案",
	table: map[Status]map[Action]Status{
		StatusDraft: {
			ActionEdit:   StatusDraft,
			ActionSubmit: StatusPending,
		},
		StatusPending: {
			ActionApprove:        StatusApproved,
			ActionReject:         StatusRejected,
			ActionRequestChanges: StatusDraft,
			ActionWithdraw:       StatusWithdrawn,
		},
	},
}

// ParseDecision 把审核接口里的 status / action 取值统一成动作
func ParseDecision(v string) (Action, bool) {
	switch v {
	case "approve", "approved", "published":
		return ActionApprove, true
	case "reject", "rejected":
		return ActionReject, true
	case "request_changes", "draft":
		return ActionRequestChanges, true
	}
	return "", false
}
