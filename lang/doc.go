// Package lang converts template documents into executable programs.
//
// A template is literal markup with embedded code blocks:
//
//	<p>Hello, <?php echo model.name; ?>!</p>
//
// [Scan] splits the document into an ordered [Program] of instructions.
// Literal markup becomes [OpEmitLiteral] instructions whose text has every
// double quote escaped; code blocks become [OpRunCode] instructions holding
// the code verbatim. The program text of
//
//	Hello <?php echo 1; ?> "world"
//
// is
//
//	echo "Hello ";echo 1;
//	echo " \"world\"";
//
// # Delimiters
//
// A code block opens with "<?" (optionally followed by the tag name "php")
// and closes with "?>". Code blocks do not nest, and delimiters are not
// recognized specially inside quoted strings of code.
//
// # Caching
//
// [ParseReader] and [ScanString] cache programs by the xxh3 hash of their
// source, so repeated rendering of one template scans it once per process.
// [Scan] itself is pure and never caches.
package lang
