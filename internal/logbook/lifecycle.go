package logbook

// EntryStatus 日志条目状态
type EntryStatus string

const (
	StatusDraft     EntryStatus = "draft"
	StatusSubmitted EntryStatus = "submitted"
	StatusApproved  EntryStatus = "approved"
	StatusRejected  EntryStatus = "rejected"
)

// Valid 是否为已知状态
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// InitialStatus 新建条目的状态：勾选认证直接提交，否则为草稿
func InitialStatus(certify bool) EntryStatus {
	if certify {
		return StatusSubmitted
	}
	return StatusDraft
}

// CanEdit 仅草稿可由学徒编辑
func CanEdit(s EntryStatus) bool { return s == StatusDraft }

// NextOnEdit 编辑后的状态；调用前须确认 CanEdit
func NextOnEdit(current EntryStatus, certify bool) EntryStatus {
	if certify {
		return StatusSubmitted
	}
	return current
}

// CanReview 仅已提交条目可审批或驳回
func CanReview(s EntryStatus) bool { return s == StatusSubmitted }

// IsTerminal 已批准与已驳回为终态
func IsTerminal(s EntryStatus) bool {
	return s == StatusApproved || s == StatusRejected
}
