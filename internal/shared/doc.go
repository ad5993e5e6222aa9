// Package shared holds cross-cutting helpers that belong to no single
// domain package. Test support lives in the testutil subpackage.
package shared
