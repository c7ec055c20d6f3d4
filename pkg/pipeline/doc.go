// Package pipeline provides the pipeline pieces of the developer console:
// template selection for the import form, the list view row and the run
// status reducer used by its filters.
//
// TemplateSelector looks templates up in the openshift namespace by the
// builder image runtime label (or the docker strategy label for Dockerfile
// builds) and memoizes the lists per selector:
//
//	sel := pipeline.NewTemplateSelector(client)
//	tmpl, err := sel.Select(ctx, pipeline.Request{Image: "nodejs", Resources: pipeline.ResourceKubernetes})
//	if errors.Is(err, pipeline.ErrStale) {
//		// a newer selection is in progress
//	}
//
// Row and TemplateSection are templ components rendering server-side markup.
package pipeline
