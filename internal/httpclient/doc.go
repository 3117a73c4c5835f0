// Package httpclient issues the requests of a volley run.
//
// A [Target] holds the base URL, credential, per-request timeout and the
// path segments used to build {base}/v1/{collection}/{id}/{action}. An
// [Invoker] sends one bodiless POST per work item through a shared
// [http.Client] and turns the result into an outcome:
//
//	target, err := httpclient.NewTarget(baseURL, credential, 300*time.Second, "meetings", "transcode")
//	if err != nil {
//		return err
//	}
//	inv, err := httpclient.NewInvoker(httpclient.NewClient(5), target)
//	o := inv.Invoke(ctx, runner.WorkItem{ID: "m1"})
//
// Status 200 is a success and any other status a failure. No response at
// all, including a timeout, is a transport error with status 0. Response
// bodies are drained and discarded.
package httpclient
