package files

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
)

// templateContent returns boilerplate that create_file prepends to the
// caller's initial content.
func templateContent(template, path string) (string, error) {
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	switch strings.ToLower(template) {
	case "python":
		return "#!/usr/bin/env python3\n\"\"\"" + title + "\"\"\"\n\n\ndef main():\n    pass\n\n\nif __name__ == \"__main__\":\n    main()\n", nil
	case "html":
		return "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n  <meta charset=\"UTF-8\">\n  <title>" + title + "</title>\n</head>\n<body>\n</body>\n</html>\n", nil
	case "markdown":
		return "# " + title + "\n", nil
	case "json":
		return "{}\n", nil
	case "csv":
		return "column1,column2,column3\n", nil
	default:
		return "", fmt.Errorf("%w: unknown template %q", fsop.ErrInvalidArgument, template)
	}
}
