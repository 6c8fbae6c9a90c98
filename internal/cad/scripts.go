package cad

import (
	"bytes"
	"strconv"
	"text/template"

	"github.com/pkg/errors"
)

// Go's quoted string syntax is a subset of Python's string literal syntax,
// so strconv.Quote is safe for embedding paths.
var scriptFuncs = template.FuncMap{"py": strconv.Quote}

// The prelude makes the FreeCAD modules importable from a stock interpreter.
const libPathPrelude = `import os
import sys

for p in [{{range $i, $p := .LibPaths}}{{if $i}}, {{end}}{{py $p}}{{end}}]:
    if os.path.exists(p) and p not in sys.path:
        sys.path.append(p)
`

// Python-module scripts read source and target from sys.argv.
var (
	freecadProbeScript = template.Must(template.New("freecad-probe").Funcs(scriptFuncs).Parse(
		libPathPrelude + `
import FreeCAD, Import, Mesh
`))

	freecadModuleScript = template.Must(template.New("freecad-module").Funcs(scriptFuncs).Parse(
		libPathPrelude + `
import FreeCAD
import Import
import Mesh

source, target = sys.argv[1], sys.argv[2]
doc = FreeCAD.newDocument("CadconvImport")
try:
    Import.insert(source, doc.Name)
    objs = list(doc.Objects)
    if not objs:
        sys.exit("no solids in " + source)
    Mesh.export(objs, target)
finally:
    FreeCAD.closeDocument(doc.Name)
`))

	// freecadcmd does not forward argv to scripts, so paths are literals.
	freecadCLIScript = template.Must(template.New("freecad-cli").Funcs(scriptFuncs).Parse(`import sys

import FreeCAD
import Import
import Mesh

source = {{py .Source}}
target = {{py .Target}}

doc = FreeCAD.newDocument("CadconvImport")
try:
    Import.insert(source, doc.Name)
    objs = list(doc.Objects)
    if objs:
        Mesh.export(objs, target)
finally:
    FreeCAD.closeDocument(doc.Name)
`))
)

const (
	cadqueryProbeScript = `import cadquery
`

	cadqueryScript = `import sys

import cadquery as cq

source, target = sys.argv[1], sys.argv[2]
shape = cq.importers.importStep(source).val()
shape.exportStl(target)
`
)

type scriptData struct {
	LibPaths []string
	Source   string
	Target   string
}

func render(tmpl *template.Template, data scriptData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", errors.Wrapf(err, "render %s script", tmpl.Name())
	}
	return buf.String(), nil
}
