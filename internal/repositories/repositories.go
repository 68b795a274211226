// package repositories provides the optional SQLite persistence layer.
//
// Neither store holds credential or session state; the trust model keeps that
// entirely in client cookies. The cache and log are process-local conveniences
// and the server runs fully without them.
package repositories
