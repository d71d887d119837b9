package sheet

// Column 表头与记录字段（JSON 字段名）的映射
type Column struct {
	Header  string
	Field   string
	Numeric bool
	Width   float64
}

// Layout 一个集合的导入导出格式：工作表名、下载文件名、固定列顺序
type Layout struct {
	SheetName string
	FileBase  string
	Columns   []Column
}

// FileName 固定下载文件名，format 为 "xlsx" 或 "csv"
func (l Layout) FileName(format string) string {
	return l.FileBase + "." + format
}

var descriptorColumns = []Column{
	{Header: "编号", Field: "code", Width: 14},
	{Header: "名称", Field: "name", Width: 18},
	{Header: "引种方式", Field: "method", Width: 12},
	{Header: "类型", Field: "type", Width: 12},
	{Header: "是否常规种", Field: "isRegular", Width: 12},
	{Header: "世代", Field: "generation", Width: 10},
}

var sowingDetailColumns = []Column{
	{Header: "种植编号", Field: "plantingCode", Width: 16},
	{Header: "播种数量", Field: "sowingAmount", Numeric: true, Width: 12},
	{Header: "计划编号", Field: "planCode", Width: 14},
	{Header: "播种时间", Field: "sowingTime", Width: 14},
}

func concat(parts ...[]Column) []Column {
	var out []Column
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Introductions 引种记录；导入模板的名称列为“引种名称”
var Introductions = Layout{
	SheetName: "引种记录",
	FileBase:  "引种记录",
	Columns: []Column{
		{Header: "编号", Field: "code", Width: 14},
		{Header: "引种名称", Field: "name", Width: 18},
		{Header: "引种方式", Field: "method", Width: 12},
		{Header: "类型", Field: "type", Width: 12},
		{Header: "是否常规种", Field: "isRegular", Width: 12},
		{Header: "世代", Field: "generation", Width: 10},
		{Header: "引种时间", Field: "introductionTime", Width: 14},
	},
}

var Purifications = Layout{
	SheetName: "自交系纯化",
	FileBase:  "自交系纯化记录",
	Columns: concat(descriptorColumns, []Column{
		{Header: "亲本编号", Field: "parentCode", Width: 14},
		{Header: "纯化时间", Field: "purificationTime", Width: 14},
	}),
}

var Sowings = Layout{
	SheetName: "播种记录",
	FileBase:  "播种记录",
	Columns: concat(descriptorColumns,
		[]Column{
			{Header: "引种时间", Field: "introductionTime", Width: 14},
			{Header: "来源", Field: "source", Width: 12},
		},
		sowingDetailColumns,
		[]Column{{Header: "状态", Field: "status", Width: 16}},
	),
}

var TestRecords = Layout{
	SheetName: "考种记载表",
	FileBase:  "考种记载表",
	Columns: concat(descriptorColumns,
		[]Column{
			{Header: "引种时间", Field: "introductionTime", Width: 14},
			{Header: "来源", Field: "source", Width: 12},
		},
		sowingDetailColumns,
		[]Column{
			{Header: "考种时间", Field: "testTime", Width: 14},
			{Header: "发芽率", Field: "germinationRate", Width: 10},
			{Header: "纯度", Field: "purityRate", Width: 10},
			{Header: "备注", Field: "remarks", Width: 24},
		},
	),
}

var SavedSeeds = Layout{
	SheetName: "留种记录",
	FileBase:  "留种记录",
	Columns: concat(descriptorColumns, []Column{
		{Header: "种植编号", Field: "plantingCode", Width: 16},
		{Header: "留种数量", Field: "amount", Numeric: true, Width: 12},
		{Header: "留种时间", Field: "saveTime", Width: 14},
		{Header: "来源", Field: "source", Width: 12},
	}),
}
