package echoapi

import (
	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/access"
)

// user facing texts
const (
	msgInvalidJSON           = "Invalid JSON"
	msgNotConfigured         = "서비스 설정이 완료되지 않았습니다. 관리자에게 문의해주세요."
	msgOperatorNotConfigured = "관리자 설정이 없습니다."
	msgOperatorAuthFailed    = "관리자 인증에 실패했습니다."
	msgMissingSchoolCode     = "Missing school code"
	msgInvalidSchoolCode     = "Invalid school code format (use 7 digits or 10 chars e.g. B107010911)"
	msgSchoolNotFound        = "학교 정보를 찾을 수 없습니다. 학교코드를 확인해주세요."
	msgLookupFailed          = "학교 정보 조회에 실패했습니다. 잠시 후 다시 시도해주세요."
	msgManagerOnly           = "담당 교사만 비밀번호를 설정할 수 있습니다."
	msgAlreadySet            = "이미 비밀번호가 설정되어 있습니다. 변경은 담당 교사 화면에서 해주세요."
	msgSecretNotSet          = "비밀번호가 설정되지 않은 학교입니다."
	msgCurrentMismatch       = "현재 비밀번호가 일치하지 않습니다."
	msgChangeFieldsRequired  = "school_code, current_password, new_password required"
	msgUnknownAction         = "action must be set, verify or reset"
	msgSearchNameRequired    = "학교명을 입력해주세요."
	msgChecklistNotFound     = "자료를 찾을 수 없습니다."
	msgReasonNotFound        = "선정이유를 찾을 수 없습니다."
	msgSurveyNotFound        = "신청 내역을 찾을 수 없습니다."
)

var accessMessages = map[access.Reason]string{
	access.ReasonIncomplete:      "역할, 학교명, 학교코드를 모두 입력해주세요.",
	access.ReasonBadFormat:       "올바른 NEIS 학교코드 형식이 아닙니다. (7자리: 7010911 또는 10자리: B107010911)",
	access.ReasonNotFound:        msgSchoolNotFound,
	access.ReasonNameMismatch:    "입력하신 학교명과 일치하지 않습니다.",
	access.ReasonAwaitingManager: "담당 교사가 먼저 학교 비밀번호를 설정해야 합니다. 담당 교사에게 문의해주세요.",
	access.ReasonSecretFormat:    core.PinText,
	access.ReasonConfirmMismatch: "비밀번호 확인이 일치하지 않습니다.",
	access.ReasonAlreadySet:      "다른 담당 교사가 이미 비밀번호를 설정했습니다. 설정된 비밀번호를 입력해주세요.",
	access.ReasonWrongSecret:     "비밀번호가 일치하지 않습니다.",
}

// accessMessage also names the actual school on a name mismatch.
func accessMessage(a *access.Attempt) string {
	msg := accessMessages[a.Reason]
	if a.Reason == access.ReasonNameMismatch && a.Record.Name != "" {
		msg = "입력하신 학교명과 일치하지 않습니다. (실제: " + a.Record.Name + ")"
	}
	return msg
}
