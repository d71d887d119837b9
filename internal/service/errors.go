package service

import "errors"

// 校验失败时提示给用户的文案
const (
	MsgTestAlreadyGenerated  = "该记录已生成考种记载表！"
	MsgSelectRecords         = "请选择要删除的记录"
	MsgRecordNotFound        = "记录不存在"
	MsgSowingAmountRequired  = "请输入播种数量"
	MsgSavedAmountRequired   = "请输入留种数量"
	MsgCodeRequired          = "请输入编号"
	MsgNameRequired          = "请输入名称"
	MsgXLSNotSupported       = "暂不支持 .xls 文件，请另存为 .xlsx 后再导入"
	MsgUnsupportedFileFormat = "仅支持 .xlsx 或 .csv 文件"
	MsgNoTextRecognized      = "未识别到文字，请更换图片"
)

// WarningError 校验类失败：提示给用户，不改变任何数据
type WarningError struct {
	Message string
}

func (e *WarningError) Error() string { return e.Message }

func warn(msg string) error {
	return &WarningError{Message: msg}
}

// AsWarning 判断 err 是否为校验类失败
func AsWarning(err error) (*WarningError, bool) {
	var w *WarningError
	if errors.As(err, &w) {
		return w, true
	}
	return nil, false
}
