/*
Package pagemux implements matching of http requests to page endpoints
through an ordered set of matching policies.

A router that uses this package first collects the endpoints whose route
templates match the path of an incoming request, together with the route
values extracted from the path. These candidates form a CandidateSet,
which the matching pipeline refines: policies may mark candidates invalid
or swap their endpoint for another one. The first candidate that is still
valid after all policies ran is the match.

# Candidates

A candidate pairs an endpoint with the route values of the request. The
candidate set keeps the candidates in the order of their registration
precedence and never reorders them. Policies address candidates by index
and change them in place, so the values and the position of a candidate
survive an endpoint replacement.

# Matching Policies

Policies implement the Policy interface. Before a pipeline instance is
built, every policy reports with AppliesTo whether it has work to do for
the registered endpoints at all, and policies without work are left out
of the pipeline. The remaining policies run in ascending order, where the
order of a policy is taken from the Ordered interface when implemented,
and defaults to zero. Policies of equal order run in registration order.

A policy error aborts the evaluation of the request. The pipeline returns
the error unmodified and does not undo the changes the policies already
made to the candidate set.

# Deferred Page Compilation

The pages package provides the matching policy that this module is built
around: pages are registered as lightweight descriptors and compiled into
their final endpoint on the first request that matches them. See the
documentation of the pages package for the loading and caching details.

# Endpoint Metadata

Endpoints carry an ordered metadata collection that policies inspect with
the generic endpoint.Of lookup. Metadata added later takes precedence
over earlier entries of the same type, which is what allows the compiled
form of a page to shadow its descriptor.
*/
package pagemux
