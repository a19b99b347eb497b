package cmd

import "github.com/ardnew/lom/pkg"

var (
	ErrLoadGrammar = pkg.NewError("load grammar")
	ErrParseFailed = pkg.NewError("input rejected")
	ErrReadInput   = pkg.NewError("read input")
	ErrJSONMarshal = pkg.NewError("marshal JSON")
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
)
