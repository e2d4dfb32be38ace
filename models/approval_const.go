package models

import "strings"

type DocStatus string

const (
	DocStatusPending  DocStatus = "PENDING"
	DocStatusApproved DocStatus = "APPROVED"
	DocStatusRejected DocStatus = "REJECTED"
)

func (s DocStatus) IsTerminal() bool {
	return s == DocStatusApproved || s == DocStatusRejected
}

// ParseDocStatusFilter пустое значение, ALL и неизвестные статусы - без фильтра
func ParseDocStatusFilter(value string) *DocStatus {
	switch DocStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case DocStatusPending:
		status := DocStatusPending
		return &status
	case DocStatusApproved:
		status := DocStatusApproved
		return &status
	case DocStatusRejected:
		status := DocStatusRejected
		return &status
	}
	return nil
}

type LineStatus string

const (
	LineStatusPending  LineStatus = "PENDING"
	LineStatusApproved LineStatus = "APPROVED"
	LineStatusRejected LineStatus = "REJECTED"
)

type DocCategory string

const (
	DocCategoryEtc     DocCategory = "ETC"
	DocCategoryTimeoff DocCategory = "TIMEOFF"
)

// ParseDocCategory неизвестная категория приводится к ETC
func ParseDocCategory(value string) DocCategory {
	switch DocCategory(strings.ToUpper(strings.TrimSpace(value))) {
	case DocCategoryTimeoff:
		return DocCategoryTimeoff
	default:
		return DocCategoryEtc
	}
}

type TimeoffType string

const (
	TimeoffTypeAnnual TimeoffType = "ANNUAL"
	TimeoffTypeHalf   TimeoffType = "HALF"
	TimeoffTypeSick   TimeoffType = "SICK"
)

// ParseTimeoffType неизвестный тип отпуска приводится к ANNUAL
func ParseTimeoffType(value string) TimeoffType {
	switch TimeoffType(strings.ToUpper(strings.TrimSpace(value))) {
	case TimeoffTypeHalf:
		return TimeoffTypeHalf
	case TimeoffTypeSick:
		return TimeoffTypeSick
	default:
		return TimeoffTypeAnnual
	}
}
