package rod

const (
	BlankHTML = `<!DOCTYPE html>
<html>
<head><title>Blank</title></head>
<body>
	<h1>Welcome</h1>
</body>
</html>`

	LandingHTML = `<!DOCTYPE html>
<html>
<body>
	<a href="/about" id="about">About us</a>
	<button id="signin" class="btn primary" aria-label="Sign in to your account">Sign In</button>
	<div role="button" id="help">Help</div>
	<div id="form-slot"></div>
	<script>
		document.getElementById('signin').addEventListener('click', function() {
			document.getElementById('form-slot').innerHTML =
				'<form id="login"><input id="user" type="text"/><input id="pass" type="password"/>' +
				'<button type="submit">Log in</button></form>';
		});
	</script>
</body>
</html>`

	LoginFormHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="login" onsubmit="event.preventDefault(); document.getElementById('status').textContent = 'sent';">
		<!-- credentials -->
		<input id="username" type="text" name="username" value="prefilled" />
		<input id="password" type="password" name="password" />
		<select id="year" name="year"><option>2024</option></select>
		<input id="go" type="SUBMIT" value="Continue" />
	</form>
	<p id="status"></p>
</body>
</html>`
)
