// Package docs fetches the SELISE Blocks developer documentation.
//
// The documentation lives in a public GitHub repository: a topics.json
// catalog describing every topic (workflows, recipes, architecture guides)
// plus one markdown file per topic. The client caches the catalog briefly so
// multi-topic reads do not refetch it.
package docs
