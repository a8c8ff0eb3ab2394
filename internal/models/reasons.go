package models

// ReportReason 举报理由；critical 的理由在受理时强制升级为处分
type ReportReason struct {
	NumCode     int16
	Code        string
	Description string
	Critical    bool
}

// PostReportReasons 举报理由全表（编号沿用既有数据）
var PostReportReasons = []ReportReason{
	{110, "hate_speech", "Extreme hate speech / terrorism", true},
	{121, "csam", "Child abuse or endangerment", true},
	{142, "revenge_sxm", "Revenge porn", true},
	{122, "black_market", "Sale or promotion of regulated goods (e.g. firearms)", false},
	{171, "xxx", "Pornography", false},
	{111, "tasteless", "Extreme violence / gore", false},
	{180, "impersonation", "Impersonation", false},
	{141, "doxing", "Diffusion of PII (personally identifiable information)", true},
	{123, "copyviol", "This is my creation and someone else is using it without my permission/license", false},
	{140, "bullying", "Harassment, bullying, or suicide incitement", true},
	{112, "lgbt_hate", "Hate speech against LGBTQ+ or women", true},
	{150, "security_exploit", "Dangerous security exploit or violation", true},
	{190, "false_information", "False or deceiving information", false},
	{210, "underage", "Presence in violation of age limits (i.e. under 13, or minor in adult spaces)", true},
}

var (
	reasonsByCode    = make(map[string]ReportReason, len(PostReportReasons))
	reasonsByNumCode = make(map[int16]ReportReason, len(PostReportReasons))
)

func init() {
	for _, r := range PostReportReasons {
		reasonsByCode[r.Code] = r
		reasonsByNumCode[r.NumCode] = r
	}
}

// ReasonByCode 按字符串代码查理由
func ReasonByCode(code string) (ReportReason, bool) {
	r, ok := reasonsByCode[code]
	return r, ok
}

// ReasonByNumCode 按数字代码查理由
func ReasonByNumCode(num int16) (ReportReason, bool) {
	r, ok := reasonsByNumCode[num]
	return r, ok
}

// IsCriticalReason 该理由是否强制升级（处分 + 封禁而非单纯移除）
func IsCriticalReason(num int16) bool {
	r, ok := reasonsByNumCode[num]
	return ok && r.Critical
}

// ReasonDescription 理由的展示文案；未知代码原样返回空串
func ReasonDescription(num int16) string {
	if r, ok := reasonsByNumCode[num]; ok {
		return r.Description
	}
	return ""
}
