package structures

type CliFlags struct {
	ConfigPath  string
	DebugMode   bool
	PreviewMode bool
	SetSecret   bool
}
